package restapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/application"
	"github.com/sharedcode/ocaf/cel"
	"github.com/sharedcode/ocaf/document"
	"github.com/sharedcode/ocaf/tdf"
)

// App is the application whose documents the handlers surface.
var App *application.Application

// DocumentInfo is the summary returned by GetDocumentByName.
type DocumentInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Labels        int      `json:"labels"`
	Time          int      `json:"time"`
	Modifications int      `json:"modifications"`
	Modified      bool     `json:"modified"`
	Undos         []string `json:"undos"`
	Redos         []string `json:"redos"`
}

// DocumentList is returned by GetDocuments.
type DocumentList struct {
	Open   []string `json:"open"`
	Stored []string `json:"stored"`
}

func statusOf(err error) int {
	switch {
	case ocaf.IsCode(err, ocaf.StorageNotFound):
		return http.StatusNotFound
	case ocaf.IsCode(err, ocaf.InvalidEntry):
		return http.StatusBadRequest
	case ocaf.IsCode(err, ocaf.CommandState), ocaf.IsCode(err, ocaf.InapplicableDelta):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.IndentedJSON(statusOf(err), gin.H{"message": err.Error()})
}

// withDocument opens the named document if needed and runs fn with exclusive access to it.
func withDocument(c *gin.Context, fn func(*document.Document) error) {
	name := c.Param("name")
	if _, err := App.OpenDocument(c, name); err != nil {
		fail(c, err)
		return
	}
	if err := App.Do(name, fn); err != nil {
		fail(c, err)
	}
}

func depthParam(c *gin.Context) (int, error) {
	s := c.DefaultQuery("depth", "-1")
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, ocaf.Error{Code: ocaf.InvalidEntry, Err: fmt.Errorf("invalid depth %q", s)}
	}
	return d, nil
}

// GetDocuments godoc
// @Summary GetDocuments returns the open and stored document names
// @Schemes
// @Description GetDocuments responds with the names of open documents and of documents held by storage.
// @Tags Documents
// @Produce json
// @Failure 500 {object} map[string]any
// @Success 200 {object} DocumentList
// @Router /documents [get]
// @Security Bearer
func GetDocuments(c *gin.Context) {
	stored, err := App.Stored(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, DocumentList{Open: App.Documents(), Stored: stored})
}

// GetDocumentByName godoc
// @Summary GetDocumentByName returns a document summary
// @Schemes
// @Description GetDocumentByName opens the document if needed and responds with its summary.
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Failure 404 {object} map[string]any
// @Success 200 {object} DocumentInfo
// @Router /documents/{name} [get]
// @Security Bearer
func GetDocumentByName(c *gin.Context) {
	withDocument(c, func(doc *document.Document) error {
		c.IndentedJSON(http.StatusOK, info(doc))
		return nil
	})
}

func info(doc *document.Document) DocumentInfo {
	return DocumentInfo{
		ID:            doc.ID().String(),
		Name:          doc.Name(),
		Labels:        doc.Data().NbLabels(),
		Time:          doc.Data().Time(),
		Modifications: doc.Modifications(),
		Modified:      doc.IsModified(),
		Undos:         doc.UndoNames(),
		Redos:         doc.RedoNames(),
	}
}

// GetDocumentDump godoc
// @Summary GetDocumentDump returns the label tree
// @Schemes
// @Description GetDocumentDump responds with the label tree of the document, depth levels deep.
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Param			depth	query		int		false	"Levels to include, negative for all"
// @Failure 404 {object} map[string]any
// @Success 200 {object} tdf.LabelInfo
// @Router /documents/{name}/dump [get]
// @Security Bearer
func GetDocumentDump(c *gin.Context) {
	withDocument(c, func(doc *document.Document) error {
		depth, err := depthParam(c)
		if err != nil {
			return err
		}
		c.IndentedJSON(http.StatusOK, doc.Data().Root().Info(depth))
		return nil
	})
}

// GetLabel godoc
// @Summary GetLabel returns a label by entry
// @Schemes
// @Description GetLabel responds with the label at entry (e.g. 0:1:2) and its attributes.
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Param			entry	query		string		true	"Entry of the label"
// @Param			depth	query		int		false	"Levels to include, negative for all"
// @Failure 404 {object} map[string]any
// @Success 200 {object} tdf.LabelInfo
// @Router /documents/{name}/label [get]
// @Security Bearer
func GetLabel(c *gin.Context) {
	withDocument(c, func(doc *document.Document) error {
		entry := c.Query("entry")
		if _, err := tdf.ParseEntry(entry); err != nil {
			return err
		}
		depth, err := depthParam(c)
		if err != nil {
			return err
		}
		l, ok := doc.Data().GetLabel(entry)
		if !ok {
			c.IndentedJSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("label %s not found", entry)})
			return nil
		}
		c.IndentedJSON(http.StatusOK, l.Info(depth))
		return nil
	})
}

// SelectLabels godoc
// @Summary SelectLabels returns labels matching a CEL expression
// @Schemes
// @Description SelectLabels evaluates expr against every label, e.g. "label.attrs['Name'] == 'gear'".
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Param			expr	query		string		true	"CEL expression over the label variable"
// @Failure 400 {object} map[string]any
// @Success 200 {object} []tdf.LabelInfo
// @Router /documents/{name}/select [get]
// @Security Bearer
func SelectLabels(c *gin.Context) {
	e, err := cel.NewEvaluator(c.Query("expr"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	withDocument(c, func(doc *document.Document) error {
		labels, err := cel.Select(doc.Data(), e)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return nil
		}
		r := make([]tdf.LabelInfo, 0, len(labels))
		for _, l := range labels {
			r = append(r, l.Info(0))
		}
		c.IndentedJSON(http.StatusOK, r)
		return nil
	})
}

// UndoDocument godoc
// @Summary UndoDocument undoes the last command
// @Schemes
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Failure 409 {object} map[string]any
// @Success 200 {object} DocumentInfo
// @Router /documents/{name}/undo [post]
// @Security Bearer
func UndoDocument(c *gin.Context) {
	withDocument(c, func(doc *document.Document) error {
		done, err := doc.Undo()
		if err != nil {
			return err
		}
		if !done {
			c.IndentedJSON(http.StatusConflict, gin.H{"message": "nothing to undo"})
			return nil
		}
		c.IndentedJSON(http.StatusOK, info(doc))
		return nil
	})
}

// RedoDocument godoc
// @Summary RedoDocument redoes the last undone command
// @Schemes
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Failure 409 {object} map[string]any
// @Success 200 {object} DocumentInfo
// @Router /documents/{name}/redo [post]
// @Security Bearer
func RedoDocument(c *gin.Context) {
	withDocument(c, func(doc *document.Document) error {
		done, err := doc.Redo()
		if err != nil {
			return err
		}
		if !done {
			c.IndentedJSON(http.StatusConflict, gin.H{"message": "nothing to redo"})
			return nil
		}
		c.IndentedJSON(http.StatusOK, info(doc))
		return nil
	})
}

// SaveDocument godoc
// @Summary SaveDocument persists the document
// @Schemes
// @Tags Documents
// @Produce json
// @Param			name	path		string		true	"Name of document"    minlength(1)
// @Failure 404 {object} map[string]any
// @Success 200 {object} DocumentInfo
// @Router /documents/{name}/save [post]
// @Security Bearer
func SaveDocument(c *gin.Context) {
	name := c.Param("name")
	if _, err := App.OpenDocument(c, name); err != nil {
		fail(c, err)
		return
	}
	if err := App.Save(c, name); err != nil {
		fail(c, err)
		return
	}
	withDocument(c, func(doc *document.Document) error {
		c.IndentedJSON(http.StatusOK, info(doc))
		return nil
	})
}
