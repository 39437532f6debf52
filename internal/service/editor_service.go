package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"cms-dashboard/internal/richtext"
)

// Editor commands.
const (
	CmdToggleMark  = "toggleMark"
	CmdToggleBlock = "toggleBlock"
	CmdWrapLink    = "wrapLink"
	CmdUnwrapLink  = "unwrapLink"
	CmdInsertText  = "insertText"
	CmdInsertData  = "insertData"
	CmdInsertBreak = "insertBreak"
	CmdKeyDown     = "keyDown"
	CmdState       = "state"
)

// ToolbarMarks and ToolbarBlocks are the formats the toolbar offers.
var (
	ToolbarMarks  = []richtext.Mark{richtext.Bold, richtext.Italic, richtext.Underline, richtext.Code}
	ToolbarBlocks = []richtext.ElementType{
		richtext.Heading1, richtext.Heading2, richtext.Heading3,
		richtext.NumberedList, richtext.BulletedList,
	}
)

// EditorRequest is one editing command against a document. The editor is
// stateless between requests: the client sends back the document, the
// selection and the pending marks it received last.
type EditorRequest struct {
	Document     json.RawMessage    `json:"document"`
	Selection    *richtext.Range    `json:"selection"`
	PendingMarks *richtext.Marks    `json:"pendingMarks,omitempty"`
	Command      string             `json:"command"`
	Format       string             `json:"format,omitempty"`
	URL          string             `json:"url,omitempty"`
	Text         string             `json:"text,omitempty"`
	Data         richtext.Clipboard `json:"data,omitempty"`
	Key          *richtext.KeyEvent `json:"key,omitempty"`
}

// ActiveFormats is the toolbar state at the selection.
type ActiveFormats struct {
	Marks  map[richtext.Mark]bool        `json:"marks"`
	Blocks map[richtext.ElementType]bool `json:"blocks"`
	Link   bool                          `json:"link"`
}

// EditorResponse is the document after a command. Handled is false when a
// keyDown matched no hotkey and the client should run its default action.
type EditorResponse struct {
	Document     *richtext.Document `json:"document"`
	Selection    *richtext.Range    `json:"selection"`
	PendingMarks *richtext.Marks    `json:"pendingMarks,omitempty"`
	Active       ActiveFormats      `json:"active"`
	Handled      bool               `json:"handled"`
	HTML         template.HTML      `json:"html"`
	Text         string             `json:"text"`
}

// ErrUnknownCommand is returned for commands the editor does not know.
var ErrUnknownCommand = errors.New("unknown editor command")

// EditorService runs rich-text editing commands.
type EditorService struct {
	renderer *richtext.Renderer
}

// NewEditorService creates a new EditorService.
func NewEditorService() *EditorService {
	return &EditorService{renderer: richtext.NewRenderer()}
}

// Apply decodes the request's document, runs its command and reports the
// resulting state. Bad payloads and unknown commands or formats are
// errors; commands that do not apply to the selection leave it unchanged.
func (s *EditorService) Apply(req EditorRequest) (*EditorResponse, error) {
	doc, err := richtext.Parse(string(req.Document))
	if err != nil {
		return nil, err
	}
	e := richtext.NewEditor(doc, req.Selection)
	if req.PendingMarks != nil {
		e.SetPendingMarks(*req.PendingMarks)
	}

	handled := true
	switch req.Command {
	case CmdToggleMark:
		m, err := richtext.ParseMark(req.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		e.ToggleMark(m)
	case CmdToggleBlock:
		t, err := richtext.ParseElementType(req.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		e.ToggleBlock(t)
	case CmdWrapLink:
		if !richtext.IsURL(req.URL) {
			return nil, &ValidationError{Fields: map[string]string{"url": "Please enter a valid URL"}}
		}
		e.WrapLink(req.URL)
	case CmdUnwrapLink:
		e.UnwrapLink()
	case CmdInsertText:
		e.InsertText(req.Text)
	case CmdInsertData:
		e.InsertData(req.Data)
	case CmdInsertBreak:
		e.InsertBreak()
	case CmdKeyDown:
		if req.Key == nil {
			return nil, fmt.Errorf("%w: keyDown without key", ErrUnknownCommand)
		}
		handled = e.HandleKeyDown(*req.Key)
	case CmdState, "":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}

	return s.state(e, handled), nil
}

func (s *EditorService) state(e *richtext.Editor, handled bool) *EditorResponse {
	active := ActiveFormats{
		Marks:  make(map[richtext.Mark]bool, len(ToolbarMarks)),
		Blocks: make(map[richtext.ElementType]bool, len(ToolbarBlocks)),
		Link:   e.IsLinkActive(),
	}
	for _, m := range ToolbarMarks {
		active.Marks[m] = e.IsMarkActive(m)
	}
	for _, t := range ToolbarBlocks {
		active.Blocks[t] = e.IsBlockActive(t)
	}

	resp := &EditorResponse{
		Document:  e.Doc,
		Selection: e.Selection,
		Active:    active,
		Handled:   handled,
		HTML:      s.renderer.HTML(e.Doc),
		Text:      richtext.PlainText(e.Doc),
	}
	if pm, ok := e.PendingMarks(); ok {
		resp.PendingMarks = &pm
	}
	return resp
}

// Preview renders a stored payload as sanitized HTML.
func (s *EditorService) Preview(payload string) (template.HTML, error) {
	doc, err := richtext.Parse(payload)
	if err != nil {
		return "", err
	}
	return s.renderer.HTML(doc), nil
}
