package render

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

const pageStyle = `body{font-family:sans-serif;max-width:1080px;margin:0 auto;padding:1rem}img{max-width:100%}.caption{color:#333}`

// Page is the HTML dashboard for one year selection. Changing the slider
// resubmits the form, which is the page's only event.
func Page(snap domain.Snapshot) templ.Component {
	return layout("Climate Dashboard",
		yearSelector(snap.Bounds, snap.Monthly.Year),
		monthlySection(snap.Monthly),
		warmYearSection(snap.Warm),
		comparisonSection(snap.Comparison),
		pageFooter(snap),
	)
}

// layout wraps the body components in the document shell.
func layout(title string, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		p.text(title)
		p.raw(`</title><style>` + pageStyle + `</style></head><body>`)
		for _, c := range body {
			p.render(ctx, c)
		}
		p.raw(`</body></html>`)
		return p.err
	})
}

func yearSelector(bounds domain.YearRange, selected int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		year := strconv.Itoa(selected)
		p := &pageWriter{w: w}
		p.raw(`<h1>`)
		p.text(MonthlyHeading)
		p.raw(`</h1><form method="get" action="/"><label for="year">`)
		p.text(SelectorLabel)
		p.raw(`: <output id="year-value">`)
		p.text(year)
		p.raw(`</output></label><br>`)
		p.raw(`<input type="range" id="year" name="year" min="` + strconv.Itoa(bounds.Min) +
			`" max="` + strconv.Itoa(bounds.Max) + `" step="1" value="` + year + `"`)
		p.raw(` oninput="document.getElementById('year-value').value=this.value" onchange="this.form.submit()">`)
		p.raw(`<noscript><button type="submit">Show</button></noscript></form>`)
		return p.err
	})
}

// monthlySection shows the monthly chart, or a message for a year without readings.
func monthlySection(view domain.MonthlyView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<section id="monthly">`)
		if len(view.Months) > 0 {
			p.raw(`<img alt="`)
			p.text(MonthlyTitle(view.Year))
			p.raw(`" src="/charts/monthly.png?year=` + strconv.Itoa(view.Year) + `">`)
		} else {
			p.raw(`<p>`)
			p.text(NoMonthlyDataMessage(view.Year))
			p.raw(`</p>`)
		}
		p.raw(`</section>`)
		return p.err
	})
}

func warmYearSection(warm domain.WarmYear) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<section id="warm-year"><h2>`)
		p.text(WarmYearHeading(warm.Threshold))
		p.raw(`</h2><p>`)
		p.text(WarmYearSentence(warm))
		p.raw(`</p></section>`)
		return p.err
	})
}

// comparisonSection omits the chart when no year is in both datasets but keeps
// the captions.
func comparisonSection(view domain.ComparisonView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<section id="comparison">`)
		if len(view.Rows) > 0 {
			p.raw(`<img alt="`)
			p.text(ComparisonTitle(view))
			p.raw(`" src="/charts/comparison.png">`)
		}
		p.raw(`<p class="caption">`)
		p.text(ComparisonCaption(view))
		p.raw(`</p><p class="caption">`)
		p.text(ComparisonSummary(view))
		p.raw(`</p></section>`)
		return p.err
	})
}

func pageFooter(snap domain.Snapshot) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<footer><a href="/dashboard.png?year=` + strconv.Itoa(snap.Monthly.Year) + `">Download as PNG</a> | generated `)
		p.text(snap.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
		p.raw(`</footer>`)
		return p.err
	})
}

// ErrorPage is the HTML body for a page request that cannot be served.
func ErrorPage(message string) templ.Component {
	return layout("Climate Dashboard", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<h1>`)
		p.text(MonthlyHeading)
		p.raw(`</h1><p class="error">`)
		p.text(message)
		p.raw(`</p>`)
		return p.err
	}))
}

// pageWriter keeps the first write error so each component reads linearly.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) render(ctx context.Context, c templ.Component) {
	if p.err != nil {
		return
	}
	p.err = c.Render(ctx, p.w)
}
