// Package content holds the portfolio copy rendered by the site. The default
// copy is embedded; an operator can point the site at a replacement file.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultPortfolio []byte

// Portfolio is the whole page's copy.
type Portfolio struct {
	Profile        Profile         `yaml:"profile"`
	Nav            []NavItem       `yaml:"nav"`
	Loading        Loading         `yaml:"loading"`
	Hero           Hero            `yaml:"hero"`
	About          About           `yaml:"about"`
	Experience     []Job           `yaml:"experience"`
	Projects       []Project       `yaml:"projects"`
	Skills         Skills          `yaml:"skills"`
	Certifications []Certification `yaml:"certifications"`
	Education      Education       `yaml:"education"`
	Contact        Contact         `yaml:"contact"`
}

type Profile struct {
	Name      string `yaml:"name"`
	Title     string `yaml:"title"`
	Email     string `yaml:"email"`
	ResumeURL string `yaml:"resume_url"`
}

type NavItem struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// Loading is the copy of the splash screen.
type Loading struct {
	Messages []StatusItem `yaml:"messages"`
}

type StatusItem struct {
	Icon string `yaml:"icon"`
	Text string `yaml:"text"`
}

// Hero is the top section; Phrases feed the typewriter.
type Hero struct {
	Greeting string   `yaml:"greeting"`
	Phrases  []string `yaml:"phrases"`
	Summary  string   `yaml:"summary"`
}

type About struct {
	Title      string     `yaml:"title"`
	Paragraphs []string   `yaml:"paragraphs"`
	Stats      []Stat     `yaml:"stats"`
	Strengths  []Strength `yaml:"strengths"`
}

// Stat is an animated counter in the about section.
type Stat struct {
	Key    string `yaml:"key"`
	Icon   string `yaml:"icon"`
	Label  string `yaml:"label"`
	Value  int    `yaml:"value"`
	Suffix string `yaml:"suffix"`
}

type Strength struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Job struct {
	Company      string   `yaml:"company"`
	Position     string   `yaml:"position"`
	Location     string   `yaml:"location"`
	Period       string   `yaml:"period"`
	Achievements []string `yaml:"achievements"`
	Technologies []string `yaml:"technologies"`
}

type Project struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	Technologies []string `yaml:"technologies"`
	Features     []string `yaml:"features"`
	DemoLink     string   `yaml:"demo_link"`
	CodeLink     string   `yaml:"code_link"`
}

type Certification struct {
	Title        string   `yaml:"title"`
	Issuer       string   `yaml:"issuer"`
	Date         string   `yaml:"date"`
	CredentialID string   `yaml:"credential_id"`
	Description  string   `yaml:"description"`
	Skills       []string `yaml:"skills"`
	Color        string   `yaml:"color"`
	VerifyLink   string   `yaml:"verify_link"`
}

type Education struct {
	Intro   string   `yaml:"intro"`
	Degrees []Degree `yaml:"degrees"`
	Note    string   `yaml:"note"`
}

type Degree struct {
	Degree      string   `yaml:"degree"`
	Institution string   `yaml:"institution"`
	Location    string   `yaml:"location"`
	Period      string   `yaml:"period"`
	Description string   `yaml:"description"`
	Highlights  []string `yaml:"highlights"`
	GPA         string   `yaml:"gpa"`
	Honors      []string `yaml:"honors"`
}

type Contact struct {
	Intro  string        `yaml:"intro"`
	Info   []ContactInfo `yaml:"info"`
	Social []SocialLink  `yaml:"social"`
	Note   string        `yaml:"note"`
}

type ContactInfo struct {
	Icon  string `yaml:"icon"`
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Link  string `yaml:"link"`
}

type SocialLink struct {
	Icon  string `yaml:"icon"`
	Label string `yaml:"label"`
	Link  string `yaml:"link"`
	Color string `yaml:"color"`
}

// Default returns the embedded portfolio.
func Default() (*Portfolio, error) {
	return Parse(defaultPortfolio)
}

// Load reads the portfolio at path, or the embedded one when path is empty.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return Parse(data)
}

// Parse decodes and validates a portfolio document.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the cross references the page relies on.
func (p *Portfolio) Validate() error {
	if p.Profile.Name == "" {
		return fmt.Errorf("%w: profile.name is required", ErrInvalid)
	}
	if err := p.Skills.validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.About.Stats))
	for _, s := range p.About.Stats {
		if s.Key == "" || seen[s.Key] {
			return fmt.Errorf("%w: about.stats keys must be unique and non-empty", ErrInvalid)
		}
		if s.Value < 0 {
			return fmt.Errorf("%w: about.stats %q has a negative value", ErrInvalid, s.Key)
		}
		seen[s.Key] = true
	}
	return nil
}

// StatusTexts returns the splash messages in order.
func (l Loading) StatusTexts() []string {
	out := make([]string, len(l.Messages))
	for i, m := range l.Messages {
		out[i] = m.Text
	}
	return out
}
