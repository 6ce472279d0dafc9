package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

// FetchResult is the raw upstream response: possibly duplicated tickets
// plus the row count before dedup.
type FetchResult struct {
	Total   int
	Tickets []domain.Ticket
}

// ProcessedCommit carries the fields persisted with a processed transition.
type ProcessedCommit struct {
	Advisor         string
	Note            string
	Seat            string
	Account         string
	ProcessedAtTime string
}

// TicketRepository is the upstream loader/mutator contract. Fetch returns
// raw rows; deduplication is the session workspace's job.
type TicketRepository interface {
	FetchTickets(ctx context.Context, limit int, leg domain.LegType) (FetchResult, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	CommitProcessed(ctx context.Context, code string, commit ProcessedCommit) error
	CommitAttention(ctx context.Context, code string, mode domain.AttentionMode) error
	CommitCreate(ctx context.Context, draft domain.TicketDraft) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// ticketColumns joins tickets to the reservation feed. A record locator
// can match several reservation rows, so the same ticket code may come
// back more than once; callers dedup.
const ticketColumns = `
        SELECT t.code, t.first_name, t.last_name, t.name_prefix, t.itinerary,
               t.departure_at, t.arrival_at, t.record_locator, t.airline, t.phone,
               COALESCE(r.issuer_code, ''), COALESCE(i.name, ''),
               COALESCE(r.source_system, 0), COALESCE(r.remarks, ''),
               t.status, t.advisor, t.note, t.seat, t.account,
               t.processed_at_time, t.attention
        FROM tickets t
        LEFT JOIN reservations r ON t.record_locator = r.record_locator
        LEFT JOIN issuers i ON r.issuer_code = i.code`

func (r *ticketRepository) FetchTickets(ctx context.Context, limit int, leg domain.LegType) (FetchResult, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if leg != "" {
		args = append(args, leg)
		clauses = append(clauses, fmt.Sprintf("t.leg=$%d", len(args)))
	}

	if limit <= 0 {
		limit = 1000
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.departure_at DESC LIMIT %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return FetchResult{}, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return FetchResult{}, err
	}
	return FetchResult{Total: len(tickets), Tickets: tickets}, nil
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := ticketColumns + ` WHERE t.code=$1 LIMIT 1`
	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(code))
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) CommitProcessed(ctx context.Context, code string, commit ProcessedCommit) error {
	const query = `
        UPDATE tickets
        SET status=$1, advisor=$2, note=NULLIF($3,''), seat=NULLIF($4,''),
            account=NULLIF($5,''), processed_at_time=$6
        WHERE code=$7`
	cmd, err := r.pool.Exec(ctx, query,
		domain.TicketStatusProcessed,
		commit.Advisor,
		commit.Note,
		commit.Seat,
		commit.Account,
		commit.ProcessedAtTime,
		strings.TrimSpace(code),
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CommitAttention(ctx context.Context, code string, mode domain.AttentionMode) error {
	const query = `UPDATE tickets SET attention=$1 WHERE code=$2`
	cmd, err := r.pool.Exec(ctx, query, mode, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CommitCreate(ctx context.Context, draft domain.TicketDraft) error {
	const query = `
        INSERT INTO tickets (code, first_name, last_name, itinerary, departure_at,
                             record_locator, status, advisor, note, seat, account,
                             attention, leg)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),NULLIF($9,''),NULLIF($10,''),NULLIF($11,''),$12,$13)`
	_, err := r.pool.Exec(ctx, query,
		strings.TrimSpace(draft.Code),
		draft.FirstName,
		draft.LastName,
		draft.Itinerary,
		draft.DepartureAt,
		strings.TrimSpace(draft.RecordLocator),
		domain.TicketStatusPending,
		draft.Advisor,
		draft.Note,
		draft.Seat,
		draft.Account,
		domain.AttentionInPerson,
		draft.Leg,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (domain.Ticket, error) {
	var (
		ticket          domain.Ticket
		status          *string
		advisor         *string
		note            *string
		seat            *string
		account         *string
		processedAtTime *string
		attention       *string
	)
	if err := row.Scan(
		&ticket.Code,
		&ticket.FirstName,
		&ticket.LastName,
		&ticket.NamePrefix,
		&ticket.Itinerary,
		&ticket.DepartureAt,
		&ticket.ArrivalAt,
		&ticket.RecordLocator,
		&ticket.Airline,
		&ticket.Phone,
		&ticket.IssuerCode,
		&ticket.IssuerName,
		&ticket.SourceSystem,
		&ticket.Remarks,
		&status,
		&advisor,
		&note,
		&seat,
		&account,
		&processedAtTime,
		&attention,
	); err != nil {
		return domain.Ticket{}, err
	}

	if advisor != nil {
		ticket.Advisor = *advisor
	}
	if note != nil {
		ticket.Note = *note
	}
	if seat != nil {
		ticket.Seat = *seat
	}
	if account != nil {
		ticket.Account = *account
	}
	if processedAtTime != nil {
		ticket.ProcessedAtTime = *processedAtTime
	}

	ticket.FirstName = CleanPassengerName(ticket.FirstName)
	ticket.LastName = CleanPassengerName(ticket.LastName)
	ticket.Status = deriveStatus(status, ticket.Advisor)
	ticket.Attention = deriveAttention(attention)
	return ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// deriveStatus mirrors the upstream rule: a row counts as processed when
// its stored status says so or an advisor is already assigned.
func deriveStatus(stored *string, advisor string) domain.TicketStatus {
	if stored != nil && domain.TicketStatus(*stored) == domain.TicketStatusProcessed {
		return domain.TicketStatusProcessed
	}
	if strings.TrimSpace(advisor) != "" {
		return domain.TicketStatusProcessed
	}
	return domain.TicketStatusPending
}

func deriveAttention(stored *string) domain.AttentionMode {
	if stored != nil && domain.AttentionMode(*stored) == domain.AttentionVirtual {
		return domain.AttentionVirtual
	}
	return domain.AttentionInPerson
}

var honorificPattern = regexp.MustCompile(`(?i)\b(MR|MRS|MS|MISS|DR|MSTR|CHD|INF|ADT)\b`)

// CleanPassengerName strips honorific prefixes embedded in upstream
// passenger fields and collapses leftover whitespace.
func CleanPassengerName(name string) string {
	if name == "" {
		return name
	}
	cleaned := honorificPattern.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(cleaned), " ")
}
