// File: internal/snapshot/focus.go
package snapshot

import "regexp"

// actionRefPattern finds a reference id such as @e7 inside a free-form action.
var actionRefPattern = regexp.MustCompile(`@[A-Za-z]+\d+`)

// PriorityRoles is the order in which roles are preferred when the last
// action names no element.
var PriorityRoles = []string{"button", "textbox", "link", "checkbox", "combobox"}

// SuggestFocus picks the element most worth visualizing. It reports false
// only when the snapshot has no elements.
//
// With no lastAction the first element wins. A lastAction naming a reference
// selects that element, or the first element if the reference is absent.
// Otherwise the first element with the highest-priority role present wins.
func SuggestFocus(snapshotText, lastAction string) (Element, bool) {
	return SuggestFocusIn(Parse(snapshotText), lastAction)
}

// SuggestFocusIn is SuggestFocus over already parsed elements.
func SuggestFocusIn(elements []Element, lastAction string) (Element, bool) {
	if len(elements) == 0 {
		return Element{}, false
	}
	if lastAction == "" {
		return elements[0], true
	}

	if ref := actionRefPattern.FindString(lastAction); ref != "" {
		for _, el := range elements {
			if el.Ref == ref {
				return el, true
			}
		}
		return elements[0], true
	}

	for _, role := range PriorityRoles {
		for _, el := range elements {
			if el.Role == role {
				return el, true
			}
		}
	}
	return elements[0], true
}
