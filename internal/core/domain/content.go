package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PlaceholderItemCount is the number of empty items shown for an unset list region.
const PlaceholderItemCount = 3

// Content is the value bound to a region: a single string or an ordered list.
// On the wire it is either a JSON string or a JSON array of strings.
type Content struct {
	Text  string
	Items []string
	List  bool
}

// TextContent returns scalar content.
func TextContent(s string) Content {
	return Content{Text: s}
}

// ListContent returns list content. The items are copied.
func ListContent(items ...string) Content {
	cp := make([]string, len(items))
	copy(cp, items)
	return Content{Items: cp, List: true}
}

// IsEmpty returns true if the content holds no characters.
func (c Content) IsEmpty() bool {
	if !c.List {
		return c.Text == ""
	}
	for _, item := range c.Items {
		if item != "" {
			return false
		}
	}
	return true
}

// AsLayout reshapes the content for a region layout.
// Scalar text bound to a list region becomes one item per line;
// list content bound to a scalar region is joined with newlines.
func (c Content) AsLayout(layout ContentLayout) Content {
	switch layout {
	case LayoutList:
		if c.List {
			return ListContent(c.Items...)
		}
		if c.Text == "" {
			return ListContent()
		}
		return ListContent(strings.Split(c.Text, "\n")...)
	default:
		if c.List {
			return TextContent(strings.Join(c.Items, "\n"))
		}
		return c
	}
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	if c.List {
		return ListContent(c.Items...)
	}
	return c
}

// String renders the content as display text.
func (c Content) String() string {
	if c.List {
		return strings.Join(c.Items, "\n")
	}
	return c.Text
}

// MarshalJSON encodes scalar content as a string and list content as an array.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.List {
		items := c.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Content{}
		return nil
	}
	if trimmed[0] == '[' {
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("%w: content list: %v", ErrInvalidInput, err)
		}
		*c = ListContent(items...)
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("%w: content must be a string or list of strings", ErrInvalidInput)
	}
	*c = TextContent(s)
	return nil
}

// ContentBinding maps region IDs to their current content.
type ContentBinding map[string]Content

// Clone returns a deep copy of the binding.
func (b ContentBinding) Clone() ContentBinding {
	out := make(ContentBinding, len(b))
	for id, c := range b {
		out[id] = c.Clone()
	}
	return out
}

// ContentPatch is produced by the generation collaborator.
// Keys are region kinds (applied to every region of that kind) or region IDs.
type ContentPatch map[string]Content
