package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zoodrop/service/internal/namegen"
	"github.com/zoodrop/service/internal/sniff"
	"github.com/zoodrop/service/internal/storage"
)

// Gate authenticates upload tokens.
type Gate interface {
	Authenticate(ctx context.Context, token string) bool
}

// Ledger records upload provenance and download access bookkeeping.
type Ledger interface {
	Record(ctx context.Context, identifier, apiKeyUsed string) error
	RecordAccess(ctx context.Context, identifier string) error
}

// Request carries the fields consumed from one multipart upload.
type Request struct {
	// File is the raw bytes of the file part; HasFile distinguishes a
	// missing part from an empty one.
	File    []byte
	HasFile bool
	// Token is the password part. An absent part and an empty value are
	// rejected identically.
	Token string
}

// Result is the outcome reported to the client.
type Result struct {
	Success bool
	Content string
}

// Service sequences the admission pipeline for one upload: classify the
// file, authenticate the token, name the object, persist it, record it.
// The first failing gate terminates the request; nothing is persisted on
// a rejection.
type Service struct {
	gate   Gate
	store  storage.Storage
	ledger Ledger
}

// NewService creates a new upload Service.
func NewService(gate Gate, store storage.Storage, ledger Ledger) *Service {
	return &Service{gate: gate, store: store, ledger: ledger}
}

// Process runs the pipeline. The returned error is non-nil only for
// storage failures; every client-caused rejection comes back as a Result
// with Success=false and the rejection message in Content.
//
// Gate order is fixed: the classifier runs before the credential gate, so
// an unusable file with a missing token reports the file rejection.
func (s *Service) Process(ctx context.Context, req Request) (Result, error) {
	if !req.HasFile {
		return reject("Please supply a file"), nil
	}

	fileType, err := sniff.Classify(req.File)
	if err != nil {
		msg := rejectionMessage(err)
		log.Printf("upload: rejected: %s", msg)
		return reject(msg), nil
	}

	if req.Token == "" {
		log.Println("upload: rejected: no token supplied")
		return reject("Please supply an authentication token"), nil
	}
	if !s.gate.Authenticate(ctx, req.Token) {
		log.Println("upload: rejected: invalid token")
		return reject("Invalid authentication token"), nil
	}

	identifier := namegen.Generate()
	key := identifier + "." + fileType.Ext()

	err = s.store.Save(ctx, key, bytes.NewReader(req.File), int64(len(req.File)), fileType.MIME())
	if err != nil {
		return Result{}, fmt.Errorf("persist %q: %w", key, err)
	}

	// Best-effort: the object is already durable and retrievable by
	// identifier even without a ledger row.
	if err := s.ledger.Record(ctx, identifier, req.Token); err != nil {
		log.Printf("upload: ledger record failed for %q: %v", identifier, err)
	}

	url := s.store.PublicURL(key)
	log.Printf("upload: created %s using api_key %s", url, req.Token)
	return Result{Success: true, Content: url}, nil
}

// RecordAccess updates the access ledger after a successful download.
// Callers run it in its own goroutine so the byte response is never
// delayed; failures are logged and swallowed.
func (s *Service) RecordAccess(identifier string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ledger.RecordAccess(ctx, identifier); err != nil {
		log.Printf("upload: access ledger update failed for %q: %v", identifier, err)
	}
}

func reject(message string) Result {
	return Result{Success: false, Content: message}
}

// rejectionMessage maps classifier errors to the client-visible wording.
func rejectionMessage(err error) string {
	var unsupported *sniff.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return "Unsupported file type: " + unsupported.MIME
	}
	return "File type could not be determined"
}
