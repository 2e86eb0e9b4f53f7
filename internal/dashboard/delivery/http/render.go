package http

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"traderflow/internal/dashboard/chart"
	"traderflow/internal/dashboard/service"
	"traderflow/internal/entity"
	"traderflow/pkg/common"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	chartWidth  = 800
	chartHeight = 300
)

// TemplateRenderer renders the dashboard HTML templates for Echo.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.New("dashboard").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Page is the data every template receives. DarkMode is threaded in from the
// session middleware; templates derive the document class from it.
type Page struct {
	Title           string
	DarkMode        bool
	ReturnTo        string
	RefreshURL      string
	RefreshInterval int
	Content         interface{}
}

func newPage(c echo.Context, title string, content interface{}) Page {
	return Page{
		Title:    title,
		DarkMode: darkMode(c),
		ReturnTo: c.Request().URL.RequestURI(),
		Content:  content,
	}
}

func darkMode(c echo.Context) bool {
	v, _ := c.Get(common.ContextKeyDarkMode).(bool)
	return v
}

func sessionID(c echo.Context) string {
	v, _ := c.Get(common.ContextKeySession).(string)
	return v
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"fixed2":         service.Fixed2,
		"percent":        service.Percent,
		"thousands":      service.Thousands,
		"volume":         service.VolumeText,
		"indicatorText":  service.IndicatorText,
		"signalClass":    service.SignalClass,
		"sentimentClass": service.SentimentClass,
		"polyline": func(c chart.Chart, s chart.Series) string {
			return c.Polyline(s, chartWidth, chartHeight)
		},
		"chartWidth":  func() int { return chartWidth },
		"chartHeight": func() int { return chartHeight },
		"companyURL": func(id string) string {
			return "/company/" + url.PathEscape(id)
		},
		"indicatorOptions": func() []entity.IndicatorOption {
			return entity.IndicatorOptions
		},
		"dateValue": func(d *entity.Date) string {
			if d == nil {
				return ""
			}
			return d.String()
		},
	}
}
