// Package content holds the static sample strings the site renders: hero
// steps, testimonials, logos, plans and the rest. The default set is embedded;
// an override file can replace it and is reloaded when it changes.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recera/clueso-site/pkg/rotation"
)

//go:embed content.yaml
var defaultContent []byte

// Content is everything the pages and views render
type Content struct {
	Hero           Hero            `yaml:"hero"`
	Testimonials   []Testimonial   `yaml:"testimonials"`
	Logos          []Logo          `yaml:"logos"`
	Stats          []Stat          `yaml:"stats"`
	StripStats     []Stat          `yaml:"strip_stats"`
	Features       []Feature       `yaml:"features"`
	HowItWorks     []Feature       `yaml:"how_it_works"`
	UseCases       []UseCase       `yaml:"use_cases"`
	Translate      Translate       `yaml:"translate"`
	TrustBadges    []string        `yaml:"trust_badges"`
	Customers      Customers       `yaml:"customers"`
	Resources      Resources       `yaml:"resources"`
	Dashboard      Dashboard       `yaml:"dashboard"`
	Plans          []Plan          `yaml:"plans"`
	ContactMethods []ContactMethod `yaml:"contact_methods"`
	Offices        []Office        `yaml:"offices"`
	DemoBenefits   []string        `yaml:"demo_benefits"`
	TeamSizes      []Option        `yaml:"team_sizes"`
}

type Hero struct {
	Badge      string   `yaml:"badge"`
	Rating     string   `yaml:"rating"`
	Headline   string   `yaml:"headline"`
	Highlight  string   `yaml:"highlight"`
	Subheading string   `yaml:"subheading"`
	Steps      []string `yaml:"steps"`
}

type Testimonial struct {
	Quote   string `yaml:"quote"`
	Author  string `yaml:"author"`
	Role    string `yaml:"role"`
	Company string `yaml:"company"`
	Avatar  string `yaml:"avatar"`
	Rating  int    `yaml:"rating"`
	Impact  string `yaml:"impact"`
	Logo    string `yaml:"logo"`
}

type Logo struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Feature is a titled card; features, how-it-works steps and resource topics share it
type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// UseCase is a team the product serves, with its headline result
type UseCase struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Stats       string   `yaml:"stats"`
	Features    []string `yaml:"features"`
}

type Translate struct {
	Languages  []Language `yaml:"languages"`
	Highlights []Feature  `yaml:"highlights"`
	// MoreLanguages counts the supported languages not listed
	MoreLanguages int `yaml:"more_languages"`
}

// Language is a voiceover language with a sample line in it
type Language struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Flag   string `yaml:"flag"`
	Sample string `yaml:"sample"`
}

type Customers struct {
	Stories []Story  `yaml:"stories"`
	Stats   []Stat   `yaml:"stats"`
	Logos   []string `yaml:"logos"`
}

// Story is a featured customer quote with its results
type Story struct {
	Company  string   `yaml:"company"`
	Industry string   `yaml:"industry"`
	Quote    string   `yaml:"quote"`
	Author   string   `yaml:"author"`
	Role     string   `yaml:"role"`
	Avatar   string   `yaml:"avatar"`
	Results  []string `yaml:"results"`
}

type Resources struct {
	Categories []Feature  `yaml:"categories"`
	Articles   []Article  `yaml:"articles"`
	Webinars   []Webinar  `yaml:"webinars"`
	Templates  []Template `yaml:"templates"`
}

type Article struct {
	Category    string `yaml:"category"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ReadTime    string `yaml:"read_time"`
}

type Webinar struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Time    string `yaml:"time"`
	Speaker string `yaml:"speaker"`
	Role    string `yaml:"role"`
}

type Template struct {
	Name      string `yaml:"name"`
	Downloads string `yaml:"downloads"`
}

// Dashboard is the sample workspace shown on /dashboard
type Dashboard struct {
	User     User      `yaml:"user"`
	Stats    []Stat    `yaml:"stats"`
	Projects []Project `yaml:"projects"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Initials string `yaml:"initials"`
}

// Project is a video in the dashboard. Status is completed, processing or draft.
type Project struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Duration string `yaml:"duration"`
	Views    int    `yaml:"views"`
	Status   string `yaml:"status"`
	Updated  string `yaml:"updated"`
}

// Plan is a pricing tier. A plan without prices is quoted on request.
type Plan struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	AnnualPrice  *int          `yaml:"annual_price"`
	MonthlyPrice *int          `yaml:"monthly_price"`
	Period       string        `yaml:"period"`
	CTA          string        `yaml:"cta"`
	Popular      bool          `yaml:"popular"`
	Features     []PlanFeature `yaml:"features"`
}

// Price returns the per-month price for the chosen billing cycle
func (p Plan) Price(annual bool) (int, bool) {
	price := p.MonthlyPrice
	if annual {
		price = p.AnnualPrice
	}
	if price == nil {
		return 0, false
	}
	return *price, true
}

type PlanFeature struct {
	Name     string `yaml:"name"`
	Included bool   `yaml:"included"`
}

type ContactMethod struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Contact     string `yaml:"contact"`
}

type Office struct {
	City    string `yaml:"city"`
	Address string `yaml:"address"`
	Region  string `yaml:"region"`
}

type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Default returns the embedded content. It panics if the embedded file is
// invalid, which is a build defect.
func Default() *Content {
	c, err := Parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("content: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads content from path, or the embedded default when path is empty
func Load(path string) (*Content, error) {
	if path == "" {
		return Parse(defaultContent)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML content
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects content the views cannot render. Every rotation set must
// have at least one item, so an empty set fails here and not when a view is
// first built.
func (c *Content) Validate() error {
	var errs []error

	sets := []struct {
		name string
		n    int
	}{
		{"hero.steps", len(c.Hero.Steps)},
		{"testimonials", len(c.Testimonials)},
		{"logos", len(c.Logos)},
	}
	for _, set := range sets {
		if set.n == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", set.name, rotation.ErrEmptySet))
		}
	}

	if len(c.Plans) == 0 {
		errs = append(errs, errors.New("plans: at least one plan is required"))
	}
	for i, p := range c.Plans {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("plans[%d]: name is required", i))
		}
		if (p.AnnualPrice == nil) != (p.MonthlyPrice == nil) {
			errs = append(errs, fmt.Errorf("plans[%d] %s: set both prices or neither", i, p.Name))
		}
	}
	for i, l := range c.Translate.Languages {
		if l.Code == "" || l.Name == "" {
			errs = append(errs, fmt.Errorf("translate.languages[%d]: code and name are required", i))
		}
	}
	for i, p := range c.Dashboard.Projects {
		switch p.Status {
		case "completed", "processing", "draft":
		default:
			errs = append(errs, fmt.Errorf("dashboard.projects[%d] %s: unknown status %q", i, p.Title, p.Status))
		}
	}
	for i, t := range c.Testimonials {
		if t.Quote == "" || t.Author == "" {
			errs = append(errs, fmt.Errorf("testimonials[%d]: quote and author are required", i))
		}
		if t.Rating < 0 || t.Rating > 5 {
			errs = append(errs, fmt.Errorf("testimonials[%d]: rating must be between 0 and 5", i))
		}
	}

	return errors.Join(errs...)
}
