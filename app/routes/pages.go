package routes

import (
	"fmt"

	"github.com/recera/clueso-site/app/views"
	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/server"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

type pageHandlers struct {
	content *content.Store
	views   *views.Factory
}

// render builds the page's views, lets body place them and closes them
// again. The served HTML is each view's initial state; the live session
// builds its own instances.
func (p *pageHandlers) render(page string, body func(c *content.Content, v map[string]live.View) []*vdom.VNode) (*vdom.VNode, error) {
	built, err := p.views.Build(page)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	defer func() {
		for _, v := range built {
			v.Close()
		}
	}()

	byName := views.ByName(built)
	var kids []*vdom.VNode
	if header, ok := byName["header"]; ok {
		kids = append(kids, header.Render())
	}
	kids = append(kids, body(p.content.Current(), byName)...)
	return h.Fragment(kids...), nil
}

func (p *pageHandlers) home(server.Ctx) (*vdom.VNode, error) {
	return p.render("home", func(c *content.Content, v map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			v["hero"].Render(),
			v["logos"].Render(),
			statsStrip(c.StripStats),
			featureGrid("features", "Everything you need to create stunning videos",
				"Powerful AI features that transform your screen recordings into professional content", c.Features),
			howItWorks(c.HowItWorks),
			v["translate"].Render(),
			v["usecases"].Render(),
			v["testimonials"].Render(),
			v["signup"].Render(),
		}
	})
}

func (p *pageHandlers) features(server.Ctx) (*vdom.VNode, error) {
	return p.render("features", func(c *content.Content, v map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			pageIntro("Features", "Powerful features for modern teams",
				"Everything you need to create professional product videos and documentation, powered by AI."),
			statsGrid(c.Stats),
			featureGrid("feature-list", "Built for every step of video creation", "", c.Features),
			v["usecases"].Render(),
			v["testimonials"].Render(),
			v["signup"].Render(),
		}
	})
}

func (p *pageHandlers) pricing(server.Ctx) (*vdom.VNode, error) {
	return p.render("pricing", func(_ *content.Content, v map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			pageIntro("Pricing", "Simple, transparent pricing",
				"Choose the plan that's right for your team. All plans include a 14-day free trial."),
			v["pricing"].Render(),
			faq(),
		}
	})
}

func (p *pageHandlers) contact(server.Ctx) (*vdom.VNode, error) {
	return p.render("contact", func(c *content.Content, _ map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			pageIntro("Contact", "Get in touch",
				"Have questions about Clueso? We'd love to hear from you. Send us a message and we'll respond as soon as possible."),
			contactMethods(c.ContactMethods),
			h.Section(vdom.Props{"class": "contact-body"},
				contactForm(),
				offices(c.Offices),
			),
		}
	})
}

func (p *pageHandlers) demo(server.Ctx) (*vdom.VNode, error) {
	return p.render("demo", func(c *content.Content, _ map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			pageIntro("Book a Demo", "See Clueso in action",
				"Get a personalized walkthrough of how Clueso can transform your video creation workflow."),
			h.Section(vdom.Props{"class": "demo-body"},
				demoBenefits(c.DemoBenefits),
				demoForm(c.TeamSizes),
			),
		}
	})
}

func (p *pageHandlers) customers(server.Ctx) (*vdom.VNode, error) {
	return p.render("customers", func(c *content.Content, v map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			pageIntro("Customer Stories", "You're in good company",
				"From startups to enterprises, thousands of teams trust Clueso to transform their video production and documentation workflows."),
			statsGrid(c.Customers.Stats),
			logoWall(c.Customers.Logos),
			stories(c.Customers.Stories),
			v["signup"].Render(),
		}
	})
}

func (p *pageHandlers) resources(server.Ctx) (*vdom.VNode, error) {
	return p.render("resources", func(c *content.Content, _ map[string]live.View) []*vdom.VNode {
		r := c.Resources
		return []*vdom.VNode{
			pageIntro("Resources & Learning", "Everything you need to succeed",
				"Explore our comprehensive library of guides, tutorials, and best practices to master video content creation."),
			featureGrid("resource-categories", "Browse by topic", "", r.Categories),
			articles(r.Articles),
			h.Section(vdom.Props{"class": "resources-body"},
				webinars(r.Webinars),
				templates(r.Templates),
			),
			supportCTA(),
		}
	})
}

// dashboard has no site header; the workspace view carries its own bar
func (p *pageHandlers) dashboard(server.Ctx) (*vdom.VNode, error) {
	return p.render("dashboard", func(_ *content.Content, v map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{v["dashboard"].Render()}
	})
}

func (p *pageHandlers) notFound(server.Ctx) (*vdom.VNode, error) {
	return p.render("notfound", func(*content.Content, map[string]live.View) []*vdom.VNode {
		return []*vdom.VNode{
			h.Section(vdom.Props{"class": "not-found"},
				h.H1(nil, h.Text("404")),
				h.P(nil, h.Text("Oops! The page you're looking for doesn't exist.")),
				h.A(vdom.Props{"class": "btn btn-primary", "href": "/"}, h.Text("Return to Home")),
			),
		}
	})
}

// errorPage is static so it renders even when building views fails
func errorPage() *vdom.VNode {
	return h.Section(vdom.Props{"class": "not-found"},
		h.H1(nil, h.Text("Something went wrong")),
		h.P(nil, h.Text("We couldn't load this page. Please try again in a moment.")),
		h.A(vdom.Props{"class": "btn btn-primary", "href": "/"}, h.Text("Return to Home")),
	)
}
