// Copyright 2018 The oksvg Authors. All rights reserved.

package main

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// element is an HTML element carrying a style attribute.
type element struct {
	path  string
	tag   string
	style string
}

// styledElements returns the elements of the document read from r that
// have a non-empty style attribute, in document order.
func styledElements(r io.Reader) ([]element, error) {
	cr, err := charset.NewReader(r, "")
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(cr)
	if err != nil {
		return nil, err
	}
	var out []element
	var walk func(n *html.Node, path []string)
	walk = func(n *html.Node, path []string) {
		if n.Type == html.ElementNode {
			path = append(path, n.Data)
			for _, a := range n.Attr {
				if a.Key == "style" && strings.TrimSpace(a.Val) != "" {
					out = append(out, element{
						path:  strings.Join(path, ">"),
						tag:   n.Data,
						style: a.Val,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, path)
		}
	}
	walk(doc, nil)
	return out, nil
}
