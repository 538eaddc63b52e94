package model

// Bar times travel as "n/d" strings.

type EntryDTO struct {
	Offset   string `json:"offset"`
	Duration string `json:"duration"`
}

type FitsRequestBody struct {
	Capacity string     `json:"capacity"`
	Entries  []EntryDTO `json:"entries"`
	Offset   string     `json:"offset"`
	Duration string     `json:"duration"`
}

type FitsResponse struct {
	Lasting string `json:"lasting"`
	Next    string `json:"next"`
	Fits    bool   `json:"fits"`
	Reason  string `json:"reason,omitempty"`
	Length  string `json:"length"`
}

// NoteDTO is one note or rest to place. Omit Key for a rest. Grace notes
// decorate the chord at their offset.
type NoteDTO struct {
	Offset   string `json:"offset"`
	Key      *uint8 `json:"key,omitempty"`
	Duration string `json:"duration"`
	Grace    bool   `json:"grace,omitempty"`
}

type VoiceRequestBody struct {
	Capacity string    `json:"capacity"`
	Notes    []NoteDTO `json:"notes"`
}

type ChordDTO struct {
	Offset      string   `json:"offset"`
	Duration    string   `json:"duration"`
	Key         string   `json:"key"`
	Decorations []string `json:"decorations,omitempty"`
}

type VoiceResponse struct {
	ID     string     `json:"id"`
	Length string     `json:"length"`
	Fill   string     `json:"fill"`
	Chords []ChordDTO `json:"chords"`
}

type ErrorResponse struct {
	Error    string            `json:"detail"`
	Code     string            `json:"code,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Index    *int              `json:"index,omitempty"`
}
