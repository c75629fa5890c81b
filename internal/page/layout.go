// Package page mounts the portfolio's sequencers for one visitor and turns
// their state changes into a stream of events.
package page

import (
	"time"

	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/internal/motion"
)

// SectionID is the DOM id of a page section.
type SectionID string

const (
	SectionHero           SectionID = "home"
	SectionAbout          SectionID = "about"
	SectionExperience     SectionID = "experience"
	SectionProjects       SectionID = "projects"
	SectionSkills         SectionID = "skills"
	SectionCertifications SectionID = "certifications"
	SectionEducation      SectionID = "education"
	SectionContact        SectionID = "contact"

	// StatsRegion is the about section's counter grid, observed on its own.
	StatsRegion SectionID = "about-stats"
)

// Hero reveal timings.
const (
	heroDelayChildren = 200 * time.Millisecond
	heroStagger       = 300 * time.Millisecond
	heroItems         = 6
)

// StatsVisibility gates the about counters.
var StatsVisibility = motion.VisibilityConfig{Threshold: 0.3, TriggerOnce: true}

// SectionSpec describes how one section is revealed.
type SectionSpec struct {
	ID         SectionID
	Visibility motion.VisibilityConfig
	Reveal     motion.Reveal
	Items      int
}

// Layout returns the section specs in page order for p. The hero is not
// visibility gated: it reveals as soon as the page mounts.
func Layout(p *content.Portfolio) []SectionSpec {
	hero := motion.NewReveal(heroStagger)
	hero.InitialDelay = heroDelayChildren

	section := func(id SectionID, threshold float64, stagger time.Duration, items int) SectionSpec {
		return SectionSpec{
			ID:         id,
			Visibility: motion.VisibilityConfig{Threshold: threshold, TriggerOnce: true},
			Reveal:     motion.NewReveal(stagger),
			Items:      items,
		}
	}

	return []SectionSpec{
		{ID: SectionHero, Reveal: hero, Items: heroItems},
		section(SectionAbout, 0.3, 200*time.Millisecond, 1+len(p.About.Strengths)),
		section(SectionExperience, 0.1, 300*time.Millisecond, len(p.Experience)),
		section(SectionProjects, 0.1, 200*time.Millisecond, len(p.Projects)),
		section(SectionSkills, 0.1, 100*time.Millisecond, len(p.Skills.Order)+1),
		section(SectionCertifications, 0.1, 200*time.Millisecond, len(p.Certifications)),
		section(SectionEducation, 0.3, 200*time.Millisecond, len(p.Education.Degrees)+1),
		section(SectionContact, 0.1, 200*time.Millisecond, len(p.Contact.Info)+len(p.Contact.Social)),
	}
}

// SkillBarReveal staggers the bars of the active skill tab.
func SkillBarReveal() motion.Reveal {
	r := motion.NewReveal(100 * time.Millisecond)
	r.Duration = time.Second
	return r
}

// ExtraTagReveal staggers the additional technology tags.
func ExtraTagReveal() motion.Reveal {
	return motion.NewReveal(50 * time.Millisecond)
}
