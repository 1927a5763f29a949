package domain

// Notice is a short scrolling message shown on the ticker.
type Notice struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
	Urgent bool   `json:"urgent"`
}

// FindNotice returns the notice with the given id, or nil.
func FindNotice(notices []Notice, id string) *Notice {
	for i := range notices {
		if notices[i].ID == id {
			return &notices[i]
		}
	}
	return nil
}
