package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// TicketService runs support requests: users see their own tickets,
// administrators see all of them laid out on the status board.
type TicketService struct {
	*EntityService[*domain.Ticket]
	comments ports.CommentRepository
}

func NewTicketService(repo ports.TicketRepository, comments ports.CommentRepository) *TicketService {
	return &TicketService{
		EntityService: newTicketEntity(repo),
		comments:      comments,
	}
}

type BoardColumn struct {
	Status  domain.TicketStatus `json:"status"`
	Tickets []*domain.Ticket    `json:"tickets"`
}

// Board groups visible tickets into the fixed status columns, newest first.
func (s *TicketService) Board(ctx context.Context, sess *domain.Session) ([]BoardColumn, error) {
	tickets, err := s.All(ctx, sess)
	if err != nil {
		return nil, err
	}

	columns := make([]BoardColumn, len(domain.TicketColumns))
	index := make(map[domain.TicketStatus]int, len(domain.TicketColumns))
	for i, status := range domain.TicketColumns {
		columns[i] = BoardColumn{Status: status, Tickets: []*domain.Ticket{}}
		index[status] = i
	}
	for _, t := range tickets {
		i, ok := index[t.Status]
		if !ok {
			i = 0
		}
		columns[i].Tickets = append(columns[i].Tickets, t)
	}
	for _, col := range columns {
		sortTicketsNewestFirst(col.Tickets)
	}
	return columns, nil
}

func sortTicketsNewestFirst(tickets []*domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

func (s *TicketService) MoveStatus(ctx context.Context, sess *domain.Session, id, status string) (*domain.Ticket, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	parsed, err := domain.ParseTicketStatus(status)
	if err != nil {
		return nil, err
	}
	ticket, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	ticket.Status = parsed
	updated, err := s.repo.Update(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("move ticket: %w", err)
	}
	return updated, nil
}

func (s *TicketService) Comments(ctx context.Context, sess *domain.Session, ticketID string) ([]*domain.TicketComment, error) {
	if _, err := s.Get(ctx, sess, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListComments(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *TicketService) AddComment(ctx context.Context, sess *domain.Session, ticketID, text string) (*domain.TicketComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("comment", "is required")
	}
	if _, err := s.Get(ctx, sess, ticketID); err != nil {
		return nil, err
	}
	comment := &domain.TicketComment{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		UserID:    sess.UserID,
		Comment:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.AppendComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}
