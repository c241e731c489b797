package catalog

import "go-expediente-dashboard/internal/model"

// ExpedienteTypes is the fixed catalog of expediente kinds the organisation
// tracks. Defined at process start and read-only afterwards; process ids are
// bound per deployment through configuration of the remote engine, not here.
func ExpedienteTypes() []model.ExpedienteType {
	return []model.ExpedienteType{
		{
			Code:         "AUTORIZACION",
			Name:         "Autorización",
			Description:  "Pedido de medicamentos, materiales de osteosíntesis, sondas, alimentación enteral",
			Sector:       "Auditoría",
			Icon:         "medical_services",
			Color:        "#4CAF50",
			RequiredDocs: []string{"Pedido médico escaneado"},
			Enabled:      true,
		},
		{
			Code:         "CORRESPONDENCIA_VARIOS",
			Name:         "Correspondencia Varios",
			Description:  "Pedidos de recetarios, órdenes médicas, insumos, certificados CUD",
			Sector:       "Área solicitante",
			Icon:         "mail",
			Color:        "#2196F3",
			RequiredDocs: []string{"Comprobante escaneado (si aplica)"},
			Enabled:      true,
		},
		{
			Code:         "LEGAJO",
			Name:         "Legajo",
			Description:  "Documentación para empleados: certificados médicos, embarazo, ausencias",
			Sector:       "Área de personal",
			Icon:         "folder",
			Color:        "#FF9800",
			RequiredDocs: []string{"Documento escaneado o físico"},
			Enabled:      true,
		},
		{
			Code:         "FACTURA_MEDICA",
			Name:         "Factura Médica",
			Description:  "Clínicas, sanatorios, hospitales públicos, prestaciones no SUR",
			Sector:       "Facturación",
			Icon:         "receipt",
			Color:        "#9C27B0",
			RequiredDocs: []string{"Factura", "comprobante", "planilla"},
			Enabled:      true,
		},
		{
			Code:         "FACTURA_PROVEEDORES",
			Name:         "Factura Proveedores",
			Description:  "Servicios e insumos generales, honorarios, servicios públicos",
			Sector:       "Facturación",
			Icon:         "business",
			Color:        "#795548",
			RequiredDocs: []string{"Factura", "comprobante", "planilla"},
			Enabled:      true,
		},
		{
			Code:         "REINTEGROS",
			Name:         "Reintegros",
			Description:  "Prestaciones médicas, odontológicas, medicamentos fuera de red",
			Sector:       "Auditoría / Odontológica / Salud Mental",
			Icon:         "money",
			Color:        "#4CAF50",
			RequiredDocs: []string{"Factura", "formulario de reintegro"},
			Enabled:      true,
		},
		{
			Code:         "SUR_MEDICACION",
			Name:         "SUR Medicación",
			Description:  "Medicamentos bajo Sistema Único de Reintegros",
			Sector:       "Auditoría",
			Icon:         "local_pharmacy",
			Color:        "#E91E63",
			RequiredDocs: []string{"Receta escaneada"},
			Enabled:      true,
		},
		{
			Code:         "CARTA_DOCUMENTO",
			Name:         "Carta Documento",
			Description:  "Documentación legal urgente, avisos judiciales",
			Sector:       "Legales",
			Icon:         "gavel",
			Color:        "#F44336",
			RequiredDocs: []string{"Registro en planilla", "copia física"},
			Enabled:      true,
		},
		{
			Code:         "NOTA",
			Name:         "Nota",
			Description:  "Coberturas, afiliaciones, oficios judiciales, cédulas, amparos",
			Sector:       "Variable según el contenido",
			Icon:         "note",
			Color:        "#607D8B",
			RequiredDocs: []string{"Adjunto físico o digital"},
			Enabled:      true,
		},
		{
			Code:         "PRESUPUESTOS",
			Name:         "Presupuestos",
			Description:  "Prestaciones médicas no convenidas previamente",
			Sector:       "Auditoría / Dirección Médica",
			Icon:         "calculate",
			Color:        "#FF5722",
			RequiredDocs: []string{"Presupuesto escaneado"},
			Enabled:      true,
		},
		{
			Code:         "HOSPITALES_PUBLICOS",
			Name:         "Hospitales Públicos",
			Description:  "Facturación de prestaciones en hospitales públicos",
			Sector:       "Facturación",
			Icon:         "local_hospital",
			Color:        "#3F51B5",
			RequiredDocs: []string{"Control de cobertura", "hoja adjunta"},
			Enabled:      true,
		},
		{
			Code:         "DESPACHOS",
			Name:         "Despachos",
			Description:  "Envío de órdenes médicas, documentación a delegaciones",
			Sector:       "Dependencia destino",
			Icon:         "local_shipping",
			Color:        "#009688",
			RequiredDocs: []string{"Comprobante", "hoja BUI", "stickers"},
			Enabled:      true,
		},
		{
			Code:         "CARPETA_DISCAPACIDAD",
			Name:         "Carpeta de Discapacidad",
			Description:  "Facturas para revisión y control de discapacidad",
			Sector:       "Junta de Discapacidad",
			Icon:         "accessible",
			Color:        "#673AB7",
			RequiredDocs: []string{"Subida a Google Drive"},
			Enabled:      true,
		},
		{
			Code:         "SOLICITUDES_CORREO_ARGENTINO",
			Name:         "Solicitudes de Correo Argentino",
			Description:  "Complementa flujo de Cartas Documento y otros envíos",
			Sector:       "Complementa otros envíos",
			Icon:         "mail_outline",
			Color:        "#757575",
			RequiredDocs: []string{"Formulario con stickers"},
			Enabled:      true,
		},
	}
}
