package entity

// RateItem is one <item> of the feed, kept as raw text
type RateItem struct {
	Title       string `xml:"title" json:"title"`
	FullName    string `xml:"fullname" json:"fullname,omitempty"`
	Description string `xml:"description" json:"description"`
	Quant       string `xml:"quant" json:"quant,omitempty"`
	Index       string `xml:"index" json:"index,omitempty"`
	Change      string `xml:"change" json:"change,omitempty"`
}

// RateSnapshot is the parsed feed document for one day
type RateSnapshot struct {
	Date  string     `json:"date,omitempty"`
	Items []RateItem `json:"items"`
}

// Find returns the first item whose title equals code
func (s *RateSnapshot) Find(code string) (RateItem, bool) {
	if s == nil {
		return RateItem{}, false
	}
	for _, item := range s.Items {
		if item.Title == code {
			return item, true
		}
	}
	return RateItem{}, false
}
