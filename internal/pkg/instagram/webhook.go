package instagram

// WebhookPayload is the body Meta posts for subscribed field changes
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value struct {
		MediaID string `json:"media_id"`
	} `json:"value"`
}

// MediaIDs lists media ids from "media" changes in delivery order
func (p WebhookPayload) MediaIDs() []string {
	var ids []string
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field == "media" && change.Value.MediaID != "" {
				ids = append(ids, change.Value.MediaID)
			}
		}
	}
	return ids
}
