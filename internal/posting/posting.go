package posting

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

const (
	// StatusNotApplied is the default status assigned by the store.
	StatusNotApplied = "not_applied"
	// StatusApplied marks a posting the user has applied to.
	StatusApplied = "applied"
)

// Posting is one normalized scraped job listing. The json tags match the
// extraction API schema, so decoded payloads map straight onto this struct.
type Posting struct {
	Title        string `json:"job_title,omitempty"`
	Company      string `json:"company,omitempty"`
	Location     string `json:"location,omitempty"`
	Experience   string `json:"experience,omitempty"`
	Compensation string `json:"compensation,omitempty"`
	Link         string `json:"link,omitempty"`
	Description  string `json:"description,omitempty"`

	// Ranking fields are computed by the ranking engine, never set by the
	// extraction API. No omitempty: a zero score and a failed experience
	// gate must survive serialization.
	TitleScore   int  `json:"title_score"`
	SkillScore   int  `json:"skill_score"`
	ExperienceOK bool `json:"experience_ok"`

	// Status is owned by the store and defaults to not_applied there.
	Status string `json:"status,omitempty"`
}

// Persistable reports whether the posting carries the fields the store
// requires. A posting without a link has no identity and cannot be stored,
// though it can still be ranked and displayed.
func (p *Posting) Persistable() bool {
	return p.Link != "" && p.Title != ""
}

// Label renders the posting as a single selection line for prompts.
func (p *Posting) Label(idx int) string {
	comp := p.Compensation
	if comp == "" {
		comp = "N/A"
	}
	return fmt.Sprintf("%d. %s / %s / %s / %s", idx+1, p.Title, p.Company, p.Location, comp)
}

// Postings is an ordered collection of postings.
type Postings struct {
	Items []*Posting
}

// Collect wraps a slice of postings in a collection. The items point into
// the given slice, so status updates through the collection are visible to
// the caller.
func Collect(postings []Posting) *Postings {
	items := make([]*Posting, len(postings))
	for i := range postings {
		items[i] = &postings[i]
	}
	return &Postings{Items: items}
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByLink(link string) *Posting {
	for _, item := range p.Items {
		if item.Link == link {
			return item
		}
	}
	return nil
}

// Labels returns one selection line per posting, in order.
func (p *Postings) Labels() []string {
	labels := make([]string, 0, len(p.Items))
	for idx, item := range p.Items {
		labels = append(labels, item.Label(idx))
	}
	return labels
}

// ReportByCompany groups postings by company name for reporting.
func (p *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range p.Items {
		key := item.Company
		if key == "" {
			key = "unknown"
		}
		report[key] = append(report[key], map[string]string{
			"title":         item.Title,
			"location":      item.Location,
			"compensation":  item.Compensation,
			"link":          item.Link,
			"experience":    item.Experience,
			"title_score":   strconv.Itoa(item.TitleScore),
			"skill_score":   strconv.Itoa(item.SkillScore),
			"experience_ok": strconv.FormatBool(item.ExperienceOK),
		})
	}
	return report
}

// DumpToTmpFile writes the postings as indented JSON to a temporary file and
// returns its name.
func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
