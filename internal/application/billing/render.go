package billing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var htmlTemplates = mustParseTemplates(entity.TemplateClassic, entity.TemplateModern, entity.TemplateMinimal)

func mustParseTemplates(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html"))
	}
	return out
}

// RenderHTML renderiza la factura con la plantilla indicada en data.Template.
func RenderHTML(data *TemplateData) (string, error) {
	tpl, ok := htmlTemplates[data.Template]
	if !ok {
		tpl = htmlTemplates[entity.TemplateClassic]
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "invoice", data); err != nil {
		return "", fmt.Errorf("html: renderizar factura: %w", err)
	}
	return buf.String(), nil
}
