package domain

// WrapperInfo describes one wrapper for discovery surfaces (CLI listing).
type WrapperInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}
