// Package form renders a tree of fields as a Bubble Tea component with three
// lifecycle modes.
//
// # Modes
//
// Display shows every visible leaf as "Label: value" with an Edit button when
// at least one leaf is editable. Edit swaps the values for inputs with Cancel
// and Save buttons; leaving it either commits through OnSubmit or restores the
// values captured when editing began. Wizard shows inputs with a submit button
// (and Back when OnBack is set) and never changes mode.
//
// The mode table lives in Transition so it can be tested without a model:
//
//	Display --Enter/Edit--> Edit        (focus first editable field)
//	Edit    --Enter-------> Display     (commit; Cancel focused: discard)
//	Edit    --Save--------> Display     (commit)
//	Edit    --Esc/Cancel--> Display     (discard)
//	Wizard  --Enter/Save--> Wizard      (commit; Back focused: back)
//
// Every Enter publishes "Enter key pressed" on the statusbar topic.
//
// # Layout
//
// Preprocess folds runs of leaves marked SameLine into rows and picks the
// auto-focus target. Fieldsets are grouped independently of their siblings.
// The target is focused once, when the load message returned by Init arrives.
// Validation errors, including the synthesized "<Label> is required", are not
// shown until then.
package form
