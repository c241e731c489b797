package model

// ExpedienteType describes one semantic kind of expediente handled by the
// organisation. The catalog is fixed at startup and read-only at runtime.
type ExpedienteType struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Sector       string   `json:"sector"`
	Icon         string   `json:"icon"`
	Color        string   `json:"color"`
	ProcessID    string   `json:"process_id,omitempty"`
	RequiredDocs []string `json:"required_docs,omitempty"`
	Enabled      bool     `json:"enabled"`
}
