package domain

// MainOption is a top-level menu entry. Value is the machine token the
// dialogue engine matches against user input.
type MainOption struct {
	MainOptionID  int64  `json:"main_option_id"`
	Label         string `json:"label"`
	Value         string `json:"value"`
	DisplayOrder  int    `json:"display_order"`
	IsActive      bool   `json:"is_active"`
	AccessGroupID int64  `json:"access_group_id"`
}

// SubOption belongs to exactly one main option.
type SubOption struct {
	SubOptionID   int64  `json:"sub_option_id"`
	MainOptionID  int64  `json:"main_option_id"`
	Label         string `json:"label"`
	Value         string `json:"value"`
	Type          string `json:"type,omitempty"`
	DisplayOrder  int    `json:"display_order"`
	IsActive      bool   `json:"is_active"`
	AccessGroupID int64  `json:"access_group_id"`
}

// SubOptionAnswer is the free-text reply linked to exactly one sub-option.
type SubOptionAnswer struct {
	AnswerID    int64  `json:"answer_id"`
	SubOptionID int64  `json:"sub_option_id"`
	AnswerText  string `json:"answer_text"`
	IsActive    bool   `json:"is_active"`
}

// MenuTree is a snapshot of the active menu configuration. Slices are
// ordered by display order; inactive nodes are excluded at load time.
type MenuTree struct {
	Mains   []MainOption
	Subs    []SubOption
	Answers []SubOptionAnswer
}

// SubsFor returns the sub-options under a main option, preserving order.
func (t *MenuTree) SubsFor(mainOptionID int64) []SubOption {
	var out []SubOption
	for _, s := range t.Subs {
		if s.MainOptionID == mainOptionID {
			out = append(out, s)
		}
	}
	return out
}

// AnswerFor returns the answer linked to a sub-option, or nil.
func (t *MenuTree) AnswerFor(subOptionID int64) *SubOptionAnswer {
	for i := range t.Answers {
		if t.Answers[i].SubOptionID == subOptionID {
			return &t.Answers[i]
		}
	}
	return nil
}
