package orders

// Configured option sets surfaced to the table view and write validation.
// Zones participates in aggregation: closed-by-zone output always enumerates
// every zone in this order, zero counts included.
var (
	Zones = []string{"Florencio Varela", "Quilmes", "La Colorada"}

	VisitTypes = []string{"Instalación", "Mudanza", "Service", "Retiro equipos"}

	Statuses = []string{StatusClosed, StatusPending, StatusCancelled}

	ReportCodes = []string{
		"Puerto sin potencia",
		"Error al confirmar ONT",
		"Puerto dañado",
		"Cambio de CTO",
		"Instalado / Service sin visibilidad en Netnumen",
		"Problema general",
	}

	ReportStatuses = []string{"Sin reporte", "En curso", "Listo"}
)

// ValidZone reports whether z is one of the configured zones.
func ValidZone(z string) bool {
	for _, zone := range Zones {
		if z == zone {
			return true
		}
	}
	return false
}
