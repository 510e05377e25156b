package dto

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page parámetros de listado leídos de la query (?limit=&offset=).
type Page struct {
	Limit  int
	Offset int
}

// Normalize acota limit a [1, MaxPageLimit] y offset a >= 0.
func (p Page) Normalize() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	p.Offset = max(p.Offset, 0)
	return p
}

// PageResponse eco de la página aplicada.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error de la API: {code, message}.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
