package api

import (
	"time"
)

type Analysis struct {
	Status string `json:"status"`
}

type Status struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
	Count  int    `json:"count,omitempty"`
}

type CreateSession struct {
	URL string `json:"url"`

	// Exactly one document form: raw markup, markdown source, or an
	// explicit element list.
	HTML     string    `json:"html,omitempty"`
	Markdown string    `json:"markdown,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

type Element struct {
	ID string `json:"id,omitempty"`

	URL string `json:"url"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	NaturalWidth  float64 `json:"naturalWidth,omitempty"`
	NaturalHeight float64 `json:"naturalHeight,omitempty"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	State string `json:"state"`

	Restricted bool `json:"restricted,omitempty"`

	Created time.Time `json:"created"`
	Focused time.Time `json:"focused"`
}
