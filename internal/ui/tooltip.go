package ui

import (
	"fyne.io/fyne/v2"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newToolbarButton creates an icon-only toolbar button whose hover tooltip
// names the action and, when set, its keyboard shortcut. Tooltips need the
// window content wrapped by fynetooltip.AddWindowToolTipLayer.
func newToolbarButton(icon fyne.Resource, action, shortcut string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	tip := action
	if shortcut != "" {
		tip += " (" + shortcut + ")"
	}
	btn.SetToolTip(tip)
	return btn
}
