// Package webtest provides a Renderer that records what a handler asked to render.
package webtest

import "net/http"

type Recorder struct {
	Status int
	Name   string
	Data   any
	Calls  int
}

func (r *Recorder) Render(w http.ResponseWriter, status int, name string, data any) {
	r.Status = status
	r.Name = name
	r.Data = data
	r.Calls++
	w.WriteHeader(status)
}
