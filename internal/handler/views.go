package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"storefront/console/internal/logx"
	"storefront/console/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"sign_in", "sign_up", "dashboard", "products", "product_form", "profile"}

type views struct {
	pages map[string]*template.Template
}

func mustParseViews(apiURL string) *views {
	funcs := template.FuncMap{
		"price": func(v model.Text) string { return model.FormatPrice(v.String()) },
		"image": func(p model.Product) string { return p.ImageLink(apiURL) },
	}

	v := &views{pages: make(map[string]*template.Template)}
	for _, name := range pages {
		t := template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
		v.pages[name] = t
	}
	return v
}

// view is what every page template receives.
type view struct {
	Title string
	User  *model.User
	Flash *flash
	Error string
	Data  any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	if v.User == nil {
		if rs := sessionFrom(r.Context()); rs != nil {
			v.User = rs.ctrl.User()
		}
	}
	if v.Flash == nil {
		v.Flash = popFlash(w, r)
	}

	t, ok := h.views.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		logx.Error().Err(err).Str("page", name).Msg("render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
