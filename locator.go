// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

type FindElementStrategy string

const (
	// Returns an element whose class name contains the search value; compound class names are not permitted.
	ClassName = FindElementStrategy("class name")
	// Returns an element matching a CSS selector.
	CSSSelector = FindElementStrategy("css selector")
	// Returns an element whose ID attribute matches the search value.
	ID = FindElementStrategy("id")
	// Returns an element whose NAME attribute matches the search value.
	Name = FindElementStrategy("name")
	// Returns an anchor element whose visible text matches the search value.
	LinkText = FindElementStrategy("link text")
	// Returns an anchor element whose visible text partially matches the search value.
	PartialLinkText = FindElementStrategy("partial link text")
	// Returns an element whose tag name matches the search value.
	TagName = FindElementStrategy("tag name")
	// Returns an element matching an XPath expression.
	XPath = FindElementStrategy("xpath")
	// Returns an element whose accessibility identifier matches the search value (native apps).
	AccessibilityID = FindElementStrategy("accessibility id")
)

// ElementLocator describes how to search for an element. It is comparable
// and can be used as a map key.
type ElementLocator struct {
	Strategy FindElementStrategy `json:"using"`
	Value    string              `json:"value"`
}

func ByID(id string) ElementLocator              { return ElementLocator{ID, id} }
func ByName(name string) ElementLocator          { return ElementLocator{Name, name} }
func ByXPath(xpath string) ElementLocator        { return ElementLocator{XPath, xpath} }
func ByCSSSelector(css string) ElementLocator    { return ElementLocator{CSSSelector, css} }
func ByClassName(class string) ElementLocator    { return ElementLocator{ClassName, class} }
func ByTagName(tag string) ElementLocator        { return ElementLocator{TagName, tag} }
func ByLinkText(text string) ElementLocator      { return ElementLocator{LinkText, text} }
func ByPartialLinkText(t string) ElementLocator  { return ElementLocator{PartialLinkText, t} }
func ByAccessibilityID(id string) ElementLocator { return ElementLocator{AccessibilityID, id} }

func (l ElementLocator) String() string {
	return string(l.Strategy) + "=" + l.Value
}
