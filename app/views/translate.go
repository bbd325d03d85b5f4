package views

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

// samplePlayback is how long a voiceover sample shows as playing
const samplePlayback = 2 * time.Second

// Translate is the language picker with a voiceover preview for the
// selected language.
type Translate struct {
	content  content.Translate
	clock    clockwork.Clock
	selected *reactive.State[string]
	playing  *reactive.State[string]
	bind     *binding

	mu     sync.Mutex
	stop   clockwork.Timer
	closed bool
}

var _ live.View = (*Translate)(nil)

func NewTranslate(c content.Translate, opts Options) *Translate {
	opts = opts.withDefaults()
	return &Translate{
		content:  c,
		clock:    opts.Clock,
		selected: reactive.NewState("", nil),
		playing:  reactive.NewState("", nil),
		bind:     &binding{view: "translate"},
	}
}

func (v *Translate) Name() string { return "translate" }

func (v *Translate) Mount(host live.Host) error {
	v.bind.bind(host)
	host.Attach(v.selected, v.playing)
	return nil
}

// HandleEvent handles "select" and "play", both with a language code.
// "play" without a code plays the selected language.
func (v *Translate) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "select":
		lang, ok := v.language(ev.Value)
		if !ok {
			return fmt.Errorf("language %q: %w", ev.Value, live.ErrUnknownAction)
		}
		v.selected.Set(lang.Code)
		v.toast(live.Toast{Title: lang.Name + " Selected", Description: lang.Sample})
	case "play":
		code := ev.Value
		if code == "" {
			code = v.selected.Get()
		}
		lang, ok := v.language(code)
		if !ok {
			return fmt.Errorf("language %q: %w", code, live.ErrUnknownAction)
		}
		v.play(lang.Code)
		v.toast(live.Toast{Title: "Playing " + lang.Name + " Sample", Description: "AI voiceover preview playing..."})
	default:
		return live.ErrUnknownAction
	}
	return nil
}

// play marks code as playing until samplePlayback passes. Playing another
// sample restarts the window.
func (v *Translate) play(code string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if v.stop != nil {
		v.stop.Stop()
	}
	v.playing.Set(code)

	var t clockwork.Timer
	t = v.clock.AfterFunc(samplePlayback, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.stop == t && !v.closed {
			v.stop = nil
			v.playing.Set("")
		}
	})
	v.stop = t
}

func (v *Translate) language(code string) (content.Language, bool) {
	for _, l := range v.content.Languages {
		if l.Code == code {
			return l, true
		}
	}
	return content.Language{}, false
}

func (v *Translate) toast(t live.Toast) {
	if host := v.bind.current(); host != nil {
		host.Toast(t)
	}
}

func (v *Translate) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.stop != nil {
		v.stop.Stop()
	}
}

// Selected returns the selected language code, empty before any selection
func (v *Translate) Selected() string { return v.selected.Get() }

// Playing returns the code of the sample being played, if any
func (v *Translate) Playing() string { return v.playing.Get() }

func (v *Translate) Render() *vdom.VNode {
	selected := v.selected.Get()
	playing := v.playing.Get()
	c := v.content
	total := len(c.Languages) + c.MoreLanguages

	return h.Section(vdom.Props{"class": "translate", "data-view": "translate"},
		h.Div(vdom.Props{"class": "translate-copy"},
			h.Span(vdom.Props{"class": "eyebrow"}, h.Textf("%d+ Languages Supported", total)),
			h.H2(nil,
				h.Text("Hola. Hallo. "),
				h.Span(vdom.Props{"class": "highlight"}, h.Text("こんにちは. नमस्ते.")),
			),
			h.P(vdom.Props{"class": "lead"}, h.Text("Make the world your audience. Translate your voiceover, captions, and documentation in one click. Reach global markets without the hassle of manual translation.")),
			h.Ul(vdom.Props{"class": "translate-highlights"},
				h.Map(c.Highlights, func(_ int, f content.Feature) *vdom.VNode {
					return h.Li(nil,
						h.Strong(nil, h.Text(f.Title)),
						h.Small(nil, h.Text(f.Description)),
					)
				})...,
			),
			h.A(vdom.Props{"class": "btn btn-primary", "href": "/demo"}, h.Text("Make Your First Video")),
		),
		h.Div(vdom.Props{"class": "translate-picker"},
			h.Div(vdom.Props{"class": "languages", "role": "listbox", "aria-label": "Languages"},
				h.Fragment(h.Map(c.Languages, func(_ int, l content.Language) *vdom.VNode {
					return h.Button(vdom.Props{
						"type":          "button",
						"role":          "option",
						"class":         vdom.Classes("language", vdom.When(l.Code == selected, "active")),
						"data-action":   "select",
						"data-value":    l.Code,
						"aria-selected": l.Code == selected,
					},
						h.Span(vdom.Props{"class": "flag", "aria-hidden": "true"}, h.Text(l.Flag)),
						h.Span(nil, h.Text(l.Name)),
					)
				})...),
				h.If(c.MoreLanguages > 0, h.Span(vdom.Props{"class": "language more"}, h.Textf("+%d more", c.MoreLanguages))),
			),
			v.preview(selected, playing),
		),
	)
}

func (v *Translate) preview(selected, playing string) *vdom.VNode {
	lang, ok := v.language(selected)
	if !ok {
		return h.P(vdom.Props{"class": "translate-preview empty"}, h.Text("Pick a language to hear a sample."))
	}

	isPlaying := playing == lang.Code
	label := "▶ Play sample"
	if isPlaying {
		label = "Playing..."
	}

	return h.Div(vdom.Props{"class": "translate-preview", "aria-live": "polite"},
		h.Div(vdom.Props{"class": "preview-language"},
			h.Span(vdom.Props{"class": "flag", "aria-hidden": "true"}, h.Text(lang.Flag)),
			h.Strong(nil, h.Text(lang.Name)),
		),
		h.Blockquote(vdom.Props{"lang": lang.Code}, h.Textf("“%s”", lang.Sample)),
		h.Button(vdom.Props{
			"type":        "button",
			"class":       vdom.Classes("play-sample", vdom.When(isPlaying, "playing")),
			"data-action": "play",
			"data-value":  lang.Code,
			"disabled":    isPlaying,
		}, h.Text(label)),
		h.Small(nil, h.Text("AI-generated translation preview")),
	)
}
