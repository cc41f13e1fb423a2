package questionnaire

// STPSPortalURL is the public REPSE registry lookup referenced by item 8.
const STPSPortalURL = "https://repse.stps.gob.mx/"

// DefaultItems returns the 10 supplier-validation points of the REPSE guide.
func DefaultItems() []Item {
	return []Item{
		{
			ID:     1,
			Prompt: "Constancia REPSE vigente con número de registro y actividad(es).",
			Note:   "La(s) actividad(es) debe(n) estar explícitamente descritas en la constancia.",
		},
		{
			ID:     2,
			Prompt: "La actividad registrada coincide con el servicio contratado y NO es actividad preponderante del cliente.",
			Note:   "Contrato de especialización real: objeto claro y no-core para tu operación.",
		},
		{
			ID:     3,
			Prompt: "Contrato especializado con cláusulas REPSE y calendario de entregables.",
			Note:   "Incluye auditoría, rescisión por incumplimiento y responsabilidades.",
		},
		{
			ID:     4,
			Prompt: "Opinión de cumplimiento SAT en positivo y al día.",
			Note:   "Verifica que no tenga créditos fiscales vencidos; guarda evidencia (PDF).",
		},
		{
			ID:     5,
			Prompt: "IMSS / INFONAVIT al corriente (comprobable).",
			Note:   "Recibe mensualmente línea de captura/pagos y relación de asegurados.",
		},
		{
			ID:     6,
			Prompt: "Recibes nóminas timbradas y listado de personal asignado (con NSS y puesto).",
			Note:   "Debe existir trazabilidad: quién presta el servicio y bajo qué condiciones.",
		},
		{
			ID:     7,
			Prompt: "Entregan evidencia mensual de cumplimiento (SAT, IMSS, INFONAVIT, nómina) como parte del servicio.",
			Note:   "Incluye en contrato el paquete de evidencias y su calendario de entrega.",
		},
		{
			ID:           8,
			Prompt:       "El padrón/consulta pública de STPS muestra estatus VIGENTE y sin notas de suspensión/cancelación.",
			Note:         "Valida en el portal oficial de STPS y conserva capturas/acuse de consulta.",
			ReferenceURL: STPSPortalURL,
		},
		{
			ID:     9,
			Prompt: "Las facturas y CFDI’s describen el servicio especializado y refieren el contrato REPSE.",
			Note:   "Evita descripciones genéricas; vincula a contrato/orden de servicio y REPSE.",
		},
		{
			ID:     10,
			Prompt: "Tu área legal/finanzas realiza auditorías y checklists REPSE periódicos (trazabilidad).",
			Note:   "Hay responsable, calendario y bitácora de auditoría con hallazgos y cierres.",
		},
	}
}

// Default returns the REPSE guide as a Definition.
func Default() *Definition {
	return MustNew(DefaultItems())
}
