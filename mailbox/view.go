package mailbox

import "lilmail/models"

// View is the projection a presentation layer renders
type View struct {
	Folder      models.Folder    `json:"folder"`
	Messages    []models.Message `json:"messages"`
	UnreadCount int              `json:"unread_count"`
	Total       int              `json:"total"`
	Selected    *models.Message  `json:"selected,omitempty"`
	Composing   bool             `json:"composing"`
	Draft       models.Draft     `json:"draft"`
}

// View projects the state for the current folder.
// The unread count always covers the whole collection.
func (s State) View() View {
	v := View{
		Folder:      s.folder,
		Messages:    make([]models.Message, 0, len(s.messages)),
		UnreadCount: s.UnreadCount(),
		Total:       len(s.messages),
		Composing:   s.composing,
		Draft:       s.draft,
	}
	for _, m := range s.messages {
		if s.folder.Includes(m) {
			v.Messages = append(v.Messages, m)
		}
	}
	if id, ok := s.SelectedID(); ok && !s.composing {
		if m, found := s.Message(id); found {
			v.Selected = &m
		}
	}
	return v
}

// IsSelected is used by templates to highlight the open message
func (v View) IsSelected(id int64) bool {
	return v.Selected != nil && v.Selected.ID == id
}
