// Package audit records who changed what through the write endpoints.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-crm/internal/common"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/obs"
)

// ActorKind represents the source of an audited action.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindSystem    ActorKind = "system"
	ActorKindAnonymous ActorKind = "anonymous"
)

// Actor describes the entity performing the action.
type Actor struct {
	Kind   ActorKind
	UserID string
}

// Store defines the database operations required for auditing.
type Store interface {
	CountAuditLogs(ctx context.Context) (int64, error)
	InsertAuditLog(ctx context.Context, arg dbgen.InsertAuditLogParams) (dbgen.InsertAuditLogRow, error)
	ListAuditLogs(ctx context.Context, arg dbgen.ListAuditLogsParams) ([]dbgen.AuditLog, error)
}

// Entry is the API view of an audit row.
type Entry struct {
	ID           string          `json:"id"`
	ActorKind    string          `json:"actorKind"`
	ActorUserID  *string         `json:"actorUserId,omitempty"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resourceType"`
	ResourceID   *string         `json:"resourceId,omitempty"`
	Method       string          `json:"method"`
	Path         string          `json:"path"`
	Status       int32           `json:"status"`
	IP           *string         `json:"ip,omitempty"`
	RequestID    *string         `json:"requestId,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Record is one audited request.
type Record struct {
	Actor        Actor
	Action       string
	ResourceType string
	ResourceID   string
	Status       int
	Metadata     map[string]any
}

// Service persists audit logs for write endpoints.
type Service struct {
	Store        Store
	Enabled      bool
	SamplingRate float64
	// Sample overrides the random source; tests pin it.
	Sample func() float64
}

// Record persists an audit entry when auditing is enabled and the request
// falls inside the sampling rate.
func (s *Service) Record(ctx context.Context, req *http.Request, rec Record) error {
	if s == nil || !s.Enabled {
		return nil
	}
	if !s.sampled() {
		return nil
	}
	if req == nil {
		return errors.New("audit: request is required")
	}
	if s.Store == nil {
		return errors.New("audit: store not configured")
	}

	route := obs.RoutePatternFromContext(req.Context())
	if route == "" {
		route = strings.TrimSpace(req.URL.Path)
	}
	status := rec.Status
	if status == 0 {
		status = http.StatusOK
	}

	_, err := s.Store.InsertAuditLog(ctx, dbgen.InsertAuditLogParams{
		ActorKind:    string(normalizeActorKind(rec.Actor.Kind)),
		ActorUserID:  toNullUUID(rec.Actor.UserID),
		Action:       buildAction(rec.Action, req.Method, route),
		ResourceType: buildResource(rec.ResourceType, route),
		ResourceID:   toNullText(rec.ResourceID),
		Method:       req.Method,
		Path:         req.URL.Path,
		Route:        toNullText(route),
		Status:       int32(status),
		Ip:           toNullText(common.ClientIP(req)),
		UserAgent:    toNullText(req.Header.Get("User-Agent")),
		RequestID:    toNullText(req.Header.Get("X-Request-ID")),
		Metadata:     metadataJSON(rec.Metadata, req.URL.RawQuery),
	})
	return err
}

// List returns one page of entries, newest first, and the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Entry, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("audit: store not configured")
	}
	total, err := s.Store.CountAuditLogs(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.Store.ListAuditLogs(ctx, dbgen.ListAuditLogsParams{Limit: int32(limit), Offset: int32(offset)})
	if err != nil {
		return nil, 0, err
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, total, nil
}

func (s *Service) sampled() bool {
	if s.SamplingRate <= 0 || s.SamplingRate >= 1 {
		return true
	}
	draw := rand.Float64
	if s.Sample != nil {
		draw = s.Sample
	}
	return draw() <= s.SamplingRate
}

func fromRow(row dbgen.AuditLog) Entry {
	e := Entry{
		ActorKind:    row.ActorKind,
		Action:       row.Action,
		ResourceType: row.ResourceType,
		Method:       row.Method,
		Path:         row.Path,
		Status:       row.Status,
		ResourceID:   textPtr(row.ResourceID),
		IP:           textPtr(row.Ip),
		RequestID:    textPtr(row.RequestID),
	}
	if row.ID.Valid {
		e.ID = uuid.UUID(row.ID.Bytes).String()
	}
	if row.ActorUserID.Valid {
		id := uuid.UUID(row.ActorUserID.Bytes).String()
		e.ActorUserID = &id
	}
	if len(row.Metadata) > 0 && json.Valid(row.Metadata) {
		e.Metadata = json.RawMessage(row.Metadata)
	}
	if row.CreatedAt.Valid {
		e.CreatedAt = row.CreatedAt.Time.UTC()
	}
	return e
}

func buildAction(action, method, route string) string {
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		return trimmed
	}
	if route == "" {
		route = "/"
	}
	return strings.ToUpper(strings.TrimSpace(method)) + " " + route
}

// buildResource derives "presales.{id}.status" style names from the route
// when the caller did not name the resource.
func buildResource(resourceType, route string) string {
	if trimmed := strings.TrimSpace(resourceType); trimmed != "" {
		return trimmed
	}
	route = strings.Trim(strings.TrimSpace(route), "/")
	if route == "" {
		return "unknown"
	}
	segments := strings.Split(route, "/")
	if len(segments) >= 3 && segments[0] == "api" && segments[1] == "v1" {
		segments = segments[2:]
	}
	return strings.Join(segments, ".")
}

func normalizeActorKind(kind ActorKind) ActorKind {
	switch kind {
	case ActorKindUser, ActorKindSystem:
		return kind
	default:
		return ActorKindAnonymous
	}
}

func toNullUUID(value string) pgtype.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func toNullText(value string) pgtype.Text {
	value = strings.TrimSpace(value)
	if value == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: value, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func metadataJSON(meta map[string]any, query string) []byte {
	if len(meta) == 0 && strings.TrimSpace(query) == "" {
		return nil
	}
	payload := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		payload[k] = v
	}
	if strings.TrimSpace(query) != "" {
		payload["query"] = query
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
