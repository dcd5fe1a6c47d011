package ui

type confirmAction int

const (
	confirmDelete confirmAction = iota
	confirmProLogout
)

// ConfirmationState backs the yes/no dialog. Target is the conversation id
// a delete applies to.
type ConfirmationState struct {
	Active  bool
	Title   string
	Message string
	Action  confirmAction
	Target  string
}

func RenderConfirmationModal(state ConfirmationState, confirmKey, cancelKey string, width, height int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	return RenderThreeSectionModal(
		state.Title,
		centeredLines(state.Message, modalWidth),
		FormatFooter(confirmKey, "Yes", cancelKey, "No"),
		ModalTypeWarning,
		modalWidth,
		width,
		height,
	)
}
