package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ilkoid/produtor-chat/pkg/flow"
)

// ErrUnknownDocument — в чеклисте продавца нет типа документа с таким именем.
var ErrUnknownDocument = errors.New("document type not in checklist")

// ChecklistItem — строка чеклиста документов продавца.
type ChecklistItem struct {
	TypeID     int    `json:"tipo_documento_id"`
	TypeCode   string `json:"tipo_documento_codigo"`
	TypeName   string `json:"tipo_documento_nome"`
	Status     string `json:"status"`
	DocumentID *int   `json:"documento_id"`
}

// Checklist — ответ GET /documentos/produtor/{id}/checklist.
//
// ProducerID — id профиля продавца, не пользователя.
type Checklist struct {
	ProducerID int             `json:"produtor_id"`
	Items      []ChecklistItem `json:"itens"`
}

// Find ищет тип документа по имени или коду без учёта регистра и диакритики.
func (c Checklist) Find(name string) (ChecklistItem, bool) {
	key := foldName(name)
	for _, it := range c.Items {
		if foldName(it.TypeName) == key || foldName(it.TypeCode) == key {
			return it, true
		}
	}
	return ChecklistItem{}, false
}

// foldName приводит имя к виду для сравнения: "Declaração  de Aptidão" -> "declaracao de aptidao".
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	return strings.Join(strings.Fields(strings.ToLower(plain)), " ")
}

// DocumentChecklist загружает чеклист документов. userID — id пользователя из сессии.
func (c *Client) DocumentChecklist(ctx context.Context, token, userID string) (Checklist, error) {
	resp, err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/documentos/produtor/" + url.PathEscape(userID) + "/checklist",
		bearer:     token,
		idempotent: true,
	})
	if err != nil {
		return Checklist{}, err
	}
	var out Checklist
	if err := decode(resp, &out); err != nil {
		return Checklist{}, fmt.Errorf("document checklist: %w", err)
	}
	return out, nil
}

type createDocumentRequest struct {
	ProducerID int `json:"produtor_id"`
	TypeID     int `json:"tipo_documento_id"`
}

type createDocumentResponse struct {
	ID int `json:"id"`
}

func (c *Client) createDocument(ctx context.Context, token string, body createDocumentRequest) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal document request: %w", err)
	}
	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/documentos/produtor",
		contentType: "application/json",
		bearer:      token,
		body: func() (io.Reader, error) {
			return bytes.NewReader(raw), nil
		},
	})
	if err != nil {
		return 0, err
	}
	var out createDocumentResponse
	if err := decode(resp, &out); err != nil {
		return 0, fmt.Errorf("create document: %w", err)
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("%w: create document: empty id", ErrTransport)
	}
	return out.ID, nil
}

// SubmitDocument отправляет файл документа.
//
// Три шага: чеклист -> запись документа (если её ещё нет) -> multipart
// POST /documentos/{id}/upload с полем file.
func (c *Client) SubmitDocument(ctx context.Context, file flow.DocumentFile) error {
	if file.AccessToken == "" {
		return fmt.Errorf("%w: submit document: no access token", ErrInvalidCredentials)
	}
	if file.UserID == "" {
		return fmt.Errorf("%w: submit document: no user id", ErrInvalidCredentials)
	}

	checklist, err := c.DocumentChecklist(ctx, file.AccessToken, file.UserID)
	if err != nil {
		return err
	}
	item, ok := checklist.Find(file.DocumentName)
	if !ok {
		return fmt.Errorf("submit document %q: %w", file.DocumentName, ErrUnknownDocument)
	}

	var docID int
	if item.DocumentID != nil {
		docID = *item.DocumentID
	} else {
		docID, err = c.createDocument(ctx, file.AccessToken, createDocumentRequest{
			ProducerID: checklist.ProducerID,
			TypeID:     item.TypeID,
		})
		if err != nil {
			return err
		}
	}

	payload, contentType, err := documentForm(file)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/documentos/" + strconv.Itoa(docID) + "/upload",
		contentType: contentType,
		bearer:      file.AccessToken,
		body: func() (io.Reader, error) {
			return bytes.NewReader(payload), nil
		},
	})
	if err != nil {
		return err
	}
	if err := decode(resp, nil); err != nil {
		return fmt.Errorf("submit document %q: %w", file.DocumentName, err)
	}
	return nil
}

func documentForm(file flow.DocumentFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.FileName))
	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("build multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
