// Package document layers commands and undo/redo stacks over a label tree.
//
// A command is an outer transaction. Committing a command that changed something pushes its
// delta on the undo stack; Undo reverts the latest one and keeps the delta that redoes it.
package document

import (
	"errors"
	"fmt"
	log "log/slog"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/tdf"
)

var (
	// ErrCommandOpen is returned when a command is opened while another one is open and
	// nested mode is off, or when nested mode changes while a command is open.
	ErrCommandOpen = errors.New("a command is already open")
	// ErrNoCommand is returned when committing or aborting with no open command.
	ErrNoCommand = errors.New("no open command")
)

// MainEntry is the entry of the label holding application data.
const MainEntry = "0:1"

// Document holds a label tree with its command and undo/redo state.
// It is not safe for concurrent use.
type Document struct {
	id          ocaf.UUID
	name        string
	data        *tdf.Data
	undoLimit   int
	nested      bool
	openLevels  int
	commandName string
	// undos and redos are stacks, most recent last.
	undos         []*tdf.Delta
	redos         []*tdf.Delta
	modifications int
	savedAt       int
	onCommit      []func(*tdf.Delta)
}

// New creates an empty document named name.
func New(name string, opts ocaf.DocumentOptions) (*Document, error) {
	dopts, err := tdf.OptionsFrom(opts.Data)
	if err != nil {
		return nil, err
	}
	return FromData(ocaf.NewUUID(), name, tdf.New(dopts...), opts), nil
}

// FromData wraps an existing label tree, e.g. one decoded from storage.
func FromData(id ocaf.UUID, name string, data *tdf.Data, opts ocaf.DocumentOptions) *Document {
	return &Document{
		id:        id,
		name:      name,
		data:      data,
		undoLimit: max(opts.UndoLimit, 0),
		nested:    opts.NestedMode,
	}
}

func (doc *Document) ID() ocaf.UUID   { return doc.id }
func (doc *Document) Name() string    { return doc.name }
func (doc *Document) Data() *tdf.Data { return doc.data }

// Main returns the main label (0:1), creating it if needed.
func (doc *Document) Main() (tdf.Label, error) {
	return doc.data.FindLabel(MainEntry, true)
}

// HasOpenCommand reports whether a command is open.
func (doc *Document) HasOpenCommand() bool {
	return doc.openLevels > 0
}

// OpenCommand opens a command. In nested mode a command may be opened inside another one.
func (doc *Document) OpenCommand() error {
	if doc.openLevels > 0 && !doc.nested {
		return ocaf.Error{Code: ocaf.CommandState, Err: ErrCommandOpen, UserData: doc.name}
	}
	doc.data.OpenTransaction()
	doc.openLevels++
	return nil
}

// SetCommandName names the outermost open command. The name is kept on its undo record.
func (doc *Document) SetCommandName(name string) {
	doc.commandName = name
}

// CommitCommand commits the innermost open command and reports whether the outermost
// command changed the document.
func (doc *Document) CommitCommand() (bool, error) {
	if doc.openLevels == 0 {
		return false, ocaf.Error{Code: ocaf.CommandState, Err: ErrNoCommand, UserData: doc.name}
	}
	if doc.openLevels > 1 {
		changed := doc.data.NbTouchedAttributes() > 0
		if _, err := doc.data.CommitTransaction(false); err != nil {
			return false, err
		}
		doc.openLevels--
		return changed, nil
	}
	delta, err := doc.data.CommitTransaction(true)
	if err != nil {
		return false, err
	}
	doc.openLevels--
	name := doc.commandName
	doc.commandName = ""
	if delta.IsEmpty() {
		return false, nil
	}
	delta.SetName(name)
	doc.modifications++
	doc.redos = nil
	if doc.undoLimit > 0 {
		doc.undos = append(doc.undos, delta)
		doc.trimUndos()
	}
	log.Debug("command committed", "document", doc.name, "command", name, "entries", delta.Len())
	for _, fn := range doc.onCommit {
		fn(delta)
	}
	return true, nil
}

// AbortCommand aborts the innermost open command.
func (doc *Document) AbortCommand() error {
	if doc.openLevels == 0 {
		return ocaf.Error{Code: ocaf.CommandState, Err: ErrNoCommand, UserData: doc.name}
	}
	if err := doc.data.AbortTransaction(); err != nil {
		return err
	}
	doc.openLevels--
	if doc.openLevels == 0 {
		doc.commandName = ""
	}
	return nil
}

func (doc *Document) abortAll() error {
	for doc.openLevels > 0 {
		if err := doc.AbortCommand(); err != nil {
			return err
		}
	}
	return nil
}

// NewCommand commits the open command, if any, and opens a new one.
func (doc *Document) NewCommand() error {
	if doc.openLevels > 0 && !doc.nested {
		if _, err := doc.CommitCommand(); err != nil {
			return err
		}
	}
	return doc.OpenCommand()
}

// Undo reverts the latest undo record, aborting any open command first. It returns false
// when there is nothing to undo.
func (doc *Document) Undo() (bool, error) {
	if err := doc.abortAll(); err != nil {
		return false, err
	}
	if len(doc.undos) == 0 {
		return false, nil
	}
	delta := doc.undos[len(doc.undos)-1]
	redo, err := doc.data.Undo(delta, true)
	if err != nil {
		return false, fmt.Errorf("undo of %q failed, details: %w", delta.Name(), err)
	}
	doc.undos = doc.undos[:len(doc.undos)-1]
	doc.redos = append(doc.redos, redo)
	doc.modifications--
	log.Debug("undo", "document", doc.name, "command", delta.Name())
	return true, nil
}

// Redo re-applies the latest undone record. It returns false when there is nothing to redo.
func (doc *Document) Redo() (bool, error) {
	if doc.openLevels > 0 {
		return false, ocaf.Error{Code: ocaf.CommandState, Err: ErrCommandOpen, UserData: doc.name}
	}
	if len(doc.redos) == 0 {
		return false, nil
	}
	delta := doc.redos[len(doc.redos)-1]
	undo, err := doc.data.Undo(delta, true)
	if err != nil {
		return false, fmt.Errorf("redo of %q failed, details: %w", delta.Name(), err)
	}
	doc.redos = doc.redos[:len(doc.redos)-1]
	doc.undos = append(doc.undos, undo)
	doc.trimUndos()
	doc.modifications++
	log.Debug("redo", "document", doc.name, "command", delta.Name())
	return true, nil
}

func (doc *Document) trimUndos() {
	if n := len(doc.undos) - doc.undoLimit; n > 0 {
		doc.undos = append(doc.undos[:0:0], doc.undos[n:]...)
	}
}

// SetUndoLimit sets the maximum number of undo records. Older records are dropped.
func (doc *Document) SetUndoLimit(n int) {
	doc.undoLimit = max(n, 0)
	doc.trimUndos()
	if doc.undoLimit == 0 {
		doc.redos = nil
	}
}

func (doc *Document) UndoLimit() int      { return doc.undoLimit }
func (doc *Document) AvailableUndos() int { return len(doc.undos) }
func (doc *Document) AvailableRedos() int { return len(doc.redos) }

// UndoNames returns the names of the undo records, most recent first.
func (doc *Document) UndoNames() []string {
	return names(doc.undos)
}

// RedoNames returns the names of the redo records, most recent first.
func (doc *Document) RedoNames() []string {
	return names(doc.redos)
}

func names(stack []*tdf.Delta) []string {
	r := make([]string, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		r = append(r, stack[i].Name())
	}
	return r
}

func (doc *Document) ClearUndos() { doc.undos = nil }
func (doc *Document) ClearRedos() { doc.redos = nil }

// SetNestedMode allows or forbids commands inside open commands.
func (doc *Document) SetNestedMode(on bool) error {
	if doc.openLevels > 0 {
		return ocaf.Error{Code: ocaf.CommandState, Err: ErrCommandOpen, UserData: doc.name}
	}
	doc.nested = on
	return nil
}

func (doc *Document) IsNestedMode() bool { return doc.nested }

// IsModified reports whether the document changed since the last SetSaved.
func (doc *Document) IsModified() bool {
	return doc.modifications != doc.savedAt
}

// Modifications returns the net number of committed changes (undo subtracts, redo adds).
func (doc *Document) Modifications() int {
	return doc.modifications
}

// SetSaved marks the current state as saved.
func (doc *Document) SetSaved() {
	doc.savedAt = doc.modifications
}

// OnCommit registers fn to be called with the delta of every outermost command that
// changed the document.
func (doc *Document) OnCommit(fn func(*tdf.Delta)) {
	doc.onCommit = append(doc.onCommit, fn)
}

// Close aborts open commands and releases the label tree.
func (doc *Document) Close() {
	if err := doc.abortAll(); err != nil {
		log.Warn("aborting open commands on close failed", "document", doc.name, "levels", doc.openLevels, "error", err)
		doc.openLevels = 0
		doc.commandName = ""
	}
	doc.undos = nil
	doc.redos = nil
	doc.data.Release()
}
