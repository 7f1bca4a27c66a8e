package controller

import (
	"net/http"

	"github.com/unifisync/unifisync/internal/model"
)

const (
	defaultPathPrefix = "/api/s/"
	defaultSite       = "default"
)

// Request is the logical request model the two controller dialects are
// normalized into. The HTTP method and final URI are derived from which of
// Data and ID are set; Method overrides the derivation when present.
type Request struct {
	Path       string
	PathPrefix string
	Proxy      string
	Site       string
	ID         string
	Data       model.Item
	Method     string
	// Masked lists HTTP status codes treated as non-fatal for this request
	// only.
	Masked []int
}

// resolve derives the method, URI and effective body for the request.
//
// The decision matrix:
//
//	data set, no id  -> POST   {proxy}{prefix}{site}{path}
//	data set, id     -> PUT    {proxy}{prefix}{site}{path}/{id}
//	no data, id      -> DELETE {proxy}{prefix}{site}{path}/{id}
//	no data, no id   -> GET    {proxy}{prefix}{site}{path}
//
// An explicit ID always wins over an _id carried in the payload; the payload
// id is consulted only when no explicit id was given, and a payload that
// consists of nothing but _id degrades to a DELETE. The proxy segment is
// inserted only for OS-embedded controllers.
func (r Request) resolve(osVariant bool) (method, uri string, body model.Item) {
	body = r.Data
	id := r.ID
	if id == "" && body != nil {
		if embedded, ok := body.ID(); ok {
			id = embedded
			if len(body) == 1 {
				body = nil
			}
		}
	}

	prefix := r.PathPrefix
	if prefix == "" {
		prefix = defaultPathPrefix
	}
	site := r.Site
	if site == "" {
		site = defaultSite
	}
	proxy := ""
	if osVariant && r.Proxy != "" {
		proxy = "/proxy/" + r.Proxy
	}

	switch {
	case body != nil && id != "":
		method = http.MethodPut
	case body != nil:
		method = http.MethodPost
	case id != "":
		method = http.MethodDelete
	default:
		method = http.MethodGet
	}
	if r.Method != "" {
		method = r.Method
	}

	uri = proxy + prefix + site + r.Path
	if id != "" {
		uri += "/" + id
	}
	return method, uri, body
}
