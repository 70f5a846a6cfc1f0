// Package store persists customers, health scores, and playbooks in
// Postgres. The engine remains the source of truth at runtime; the
// store is written through on every mutation and read back at startup.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/playbook"
)

// Service provides customer success persistence backed by Postgres.
type Service struct {
	db *sql.DB
}

// NewService creates a new store Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Ping verifies the database connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertCustomer creates or updates a customer profile row. Health
// history is stored separately in health_scores.
func (s *Service) UpsertCustomer(ctx context.Context, c *health.CustomerProfile) error {
	contact, err := json.Marshal(c.PrimaryContact)
	if err != nil {
		return fmt.Errorf("marshal primary contact: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO customers (customer_id, name, segment, contract_value, start_date,
		                        renewal_date, industry, primary_contact, success_manager,
		                        incident_impact_level, is_post_incident, trust_rebuilding,
		                        executive_escalation, last_engagement)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (customer_id) DO UPDATE
		   SET name = EXCLUDED.name,
		       segment = EXCLUDED.segment,
		       contract_value = EXCLUDED.contract_value,
		       start_date = EXCLUDED.start_date,
		       renewal_date = EXCLUDED.renewal_date,
		       industry = EXCLUDED.industry,
		       primary_contact = EXCLUDED.primary_contact,
		       success_manager = EXCLUDED.success_manager,
		       incident_impact_level = EXCLUDED.incident_impact_level,
		       is_post_incident = EXCLUDED.is_post_incident,
		       trust_rebuilding = EXCLUDED.trust_rebuilding,
		       executive_escalation = EXCLUDED.executive_escalation,
		       last_engagement = EXCLUDED.last_engagement`,
		c.CustomerID, c.Name, c.Segment, c.ContractValue, nullTime(c.StartDate),
		nullTime(c.RenewalDate), c.Industry, contact, c.SuccessManager,
		c.IncidentImpactLevel, c.IsPostIncident, c.TrustRebuildingRequired,
		c.ExecutiveEscalationRequired, c.LastEngagement,
	)
	if err != nil {
		return fmt.Errorf("upsert customer %s: %w", c.CustomerID, err)
	}
	return nil
}

// GetCustomer retrieves a customer profile with its full health history,
// oldest score first.
func (s *Service) GetCustomer(ctx context.Context, customerID string) (*health.CustomerProfile, error) {
	c := &health.CustomerProfile{}
	var contact []byte
	var startDate, renewalDate sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT customer_id, name, segment, contract_value, start_date, renewal_date,
		        industry, primary_contact, success_manager, incident_impact_level,
		        is_post_incident, trust_rebuilding, executive_escalation, last_engagement
		 FROM customers WHERE customer_id = $1`,
		customerID,
	).Scan(
		&c.CustomerID, &c.Name, &c.Segment, &c.ContractValue, &startDate, &renewalDate,
		&c.Industry, &contact, &c.SuccessManager, &c.IncidentImpactLevel,
		&c.IsPostIncident, &c.TrustRebuildingRequired, &c.ExecutiveEscalationRequired,
		&c.LastEngagement,
	)
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", customerID, err)
	}

	if startDate.Valid {
		c.StartDate = startDate.Time
	}
	if renewalDate.Valid {
		c.RenewalDate = renewalDate.Time
	}
	if len(contact) > 0 {
		if err := json.Unmarshal(contact, &c.PrimaryContact); err != nil {
			return nil, fmt.Errorf("unmarshal primary contact: %w", err)
		}
	}

	history, err := s.listHealthScores(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, m := range history {
		c.RecordMetrics(m)
	}
	return c, nil
}

// ListCustomers returns all customer profiles with their histories.
func (s *Service) ListCustomers(ctx context.Context) ([]*health.CustomerProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT customer_id FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan customer id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	customers := make([]*health.CustomerProfile, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCustomer(ctx, id)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// InsertHealthScore appends one scored metrics row for a customer.
func (s *Service) InsertHealthScore(ctx context.Context, customerID string, m health.Metrics) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO health_scores (customer_id, engagement, value_realization,
		                            relationship_health, risk, composite, tier, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		customerID, m.EngagementScore, m.ValueRealizationScore,
		m.RelationshipHealthScore, m.RiskIndicatorsScore,
		m.Composite(), string(m.Tier()), m.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert health score for %s: %w", customerID, err)
	}
	return nil
}

func (s *Service) listHealthScores(ctx context.Context, customerID string) ([]health.Metrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT engagement, value_realization, relationship_health, risk, calculated_at
		 FROM health_scores WHERE customer_id = $1 ORDER BY calculated_at, id`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list health scores for %s: %w", customerID, err)
	}
	defer rows.Close()

	var history []health.Metrics
	for rows.Next() {
		var m health.Metrics
		if err := rows.Scan(&m.EngagementScore, &m.ValueRealizationScore,
			&m.RelationshipHealthScore, &m.RiskIndicatorsScore, &m.CalculatedAt); err != nil {
			return nil, fmt.Errorf("scan health score: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}

// SavePlaybook creates or fully replaces a playbook row. Actions,
// objectives, and success criteria ride along as JSONB.
func (s *Service) SavePlaybook(ctx context.Context, pb *playbook.Playbook) error {
	actions, err := json.Marshal(pb.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}
	objectives, err := json.Marshal(pb.Objectives)
	if err != nil {
		return fmt.Errorf("marshal objectives: %w", err)
	}
	criteria, err := json.Marshal(pb.SuccessCriteria)
	if err != nil {
		return fmt.Errorf("marshal success criteria: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO playbooks (playbook_id, playbook_type, customer_id, triggered_by,
		                        triggered_at, target_completion_date, status, assigned_csm,
		                        executive_sponsor, baseline_health_score, current_health_score,
		                        outcome_summary, objectives, success_criteria, actions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (playbook_id) DO UPDATE
		   SET status = EXCLUDED.status,
		       baseline_health_score = EXCLUDED.baseline_health_score,
		       current_health_score = EXCLUDED.current_health_score,
		       outcome_summary = EXCLUDED.outcome_summary,
		       actions = EXCLUDED.actions`,
		pb.PlaybookID, string(pb.PlaybookType), pb.CustomerID, pb.TriggeredBy,
		pb.TriggeredAt, pb.TargetCompletionDate, string(pb.Status), pb.AssignedCSM,
		pb.ExecutiveSponsor, pb.BaselineHealthScore, pb.CurrentHealthScore,
		pb.OutcomeSummary, objectives, criteria, actions,
	)
	if err != nil {
		return fmt.Errorf("save playbook %s: %w", pb.PlaybookID, err)
	}
	return nil
}

// GetPlaybook retrieves one playbook by ID.
func (s *Service) GetPlaybook(ctx context.Context, playbookID string) (*playbook.Playbook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT playbook_id, playbook_type, customer_id, triggered_by, triggered_at,
		        target_completion_date, status, assigned_csm, executive_sponsor,
		        baseline_health_score, current_health_score, outcome_summary,
		        objectives, success_criteria, actions
		 FROM playbooks WHERE playbook_id = $1`,
		playbookID,
	)
	pb, err := scanPlaybook(row)
	if err != nil {
		return nil, fmt.Errorf("get playbook %s: %w", playbookID, err)
	}
	return pb, nil
}

// ListPlaybooksByCustomer returns all playbooks for a customer, newest
// trigger first.
func (s *Service) ListPlaybooksByCustomer(ctx context.Context, customerID string) ([]*playbook.Playbook, error) {
	return s.listPlaybooks(ctx,
		`SELECT playbook_id, playbook_type, customer_id, triggered_by, triggered_at,
		        target_completion_date, status, assigned_csm, executive_sponsor,
		        baseline_health_score, current_health_score, outcome_summary,
		        objectives, success_criteria, actions
		 FROM playbooks WHERE customer_id = $1 ORDER BY triggered_at DESC`,
		customerID)
}

// ListAllPlaybooks returns every playbook, newest trigger first.
func (s *Service) ListAllPlaybooks(ctx context.Context) ([]*playbook.Playbook, error) {
	return s.listPlaybooks(ctx,
		`SELECT playbook_id, playbook_type, customer_id, triggered_by, triggered_at,
		        target_completion_date, status, assigned_csm, executive_sponsor,
		        baseline_health_score, current_health_score, outcome_summary,
		        objectives, success_criteria, actions
		 FROM playbooks ORDER BY triggered_at DESC`)
}

func (s *Service) listPlaybooks(ctx context.Context, query string, args ...any) ([]*playbook.Playbook, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list playbooks: %w", err)
	}
	defer rows.Close()

	var playbooks []*playbook.Playbook
	for rows.Next() {
		pb, err := scanPlaybook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playbook: %w", err)
		}
		playbooks = append(playbooks, pb)
	}
	return playbooks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaybook(row rowScanner) (*playbook.Playbook, error) {
	pb := &playbook.Playbook{}
	var typ, status string
	var objectives, criteria, actions []byte

	err := row.Scan(
		&pb.PlaybookID, &typ, &pb.CustomerID, &pb.TriggeredBy, &pb.TriggeredAt,
		&pb.TargetCompletionDate, &status, &pb.AssignedCSM, &pb.ExecutiveSponsor,
		&pb.BaselineHealthScore, &pb.CurrentHealthScore, &pb.OutcomeSummary,
		&objectives, &criteria, &actions,
	)
	if err != nil {
		return nil, err
	}
	pb.PlaybookType = playbook.Type(typ)
	pb.Status = playbook.Status(status)

	if err := json.Unmarshal(objectives, &pb.Objectives); err != nil {
		return nil, fmt.Errorf("unmarshal objectives: %w", err)
	}
	if err := json.Unmarshal(criteria, &pb.SuccessCriteria); err != nil {
		return nil, fmt.Errorf("unmarshal success criteria: %w", err)
	}
	if err := json.Unmarshal(actions, &pb.Actions); err != nil {
		return nil, fmt.Errorf("unmarshal actions: %w", err)
	}
	return pb, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
