package component

import "image/color"

// Outline is the highlight color drawn around an interactable. *Outline
// satisfies Outliner.
type Outline struct {
	Color color.Color
}

func (o *Outline) SetOutline(c color.Color) {
	if o == nil {
		return
	}
	o.Color = c
}

var OutlineComponent = NewComponent[Outline]()
