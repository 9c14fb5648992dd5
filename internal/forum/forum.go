// Package forum manages discussion boards and their comments. Posts
// belong to the account that wrote them; only the author may edit or
// remove them.
package forum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/logger"
)

var (
	ErrBoardNotFound   = errors.New("board not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("only the author may modify this post")
)

type Board struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int       `json:"id"`
	BoardID   int       `json:"board_id"`
	UserID    int       `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type storage interface {
	SaveBoard(ctx context.Context, board *Board) error
	GetBoard(ctx context.Context, boardID int) (*Board, error)
	ListBoards(ctx context.Context) ([]*Board, error)
	DeleteBoard(ctx context.Context, boardID int) error

	SaveComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, commentID int) (*Comment, error)
	ListCommentsByBoard(ctx context.Context, boardID int) ([]*Comment, error)
	DeleteComment(ctx context.Context, commentID int) error
}

type Manager struct {
	l       *logger.Logger
	storage storage
}

func New(l *logger.Logger, storage storage) *Manager {
	return &Manager{l: l, storage: storage}
}

func validatePost(title, content string, withTitle bool) error {
	inputErr := booking.NewInputError()

	if withTitle && title == "" {
		inputErr.AddError("title", "provide title")
	}

	if content == "" {
		inputErr.AddError("content", "provide content")
	}

	if inputErr.FieldsCount() > 0 {
		return inputErr
	}

	return nil
}

func (m *Manager) CreateBoard(ctx context.Context, userID int, title, content string) (*Board, error) {
	if err := validatePost(title, content, true); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	board := &Board{ //nolint:exhaustruct // id is assigned by storage
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.storage.SaveBoard(ctx, board); err != nil {
		return nil, fmt.Errorf("save board to storage: %w", err)
	}

	return board, nil
}

func (m *Manager) Board(ctx context.Context, boardID int) (*Board, error) {
	board, err := m.storage.GetBoard(ctx, boardID)
	if errors.Is(err, booking.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load board %v from storage: %w", boardID, err)
	}

	return board, nil
}

func (m *Manager) Boards(ctx context.Context) ([]*Board, error) {
	boards, err := m.storage.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	return boards, nil
}

func (m *Manager) UpdateBoard(ctx context.Context, userID, boardID int, title, content string) (*Board, error) {
	if err := validatePost(title, content, true); err != nil {
		return nil, err
	}

	board, err := m.Board(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if board.UserID != userID {
		return nil, ErrNotAuthor
	}

	board.Title = title
	board.Content = content
	board.UpdatedAt = time.Now().UTC()

	if err := m.storage.SaveBoard(ctx, board); err != nil {
		return nil, fmt.Errorf("save board to storage: %w", err)
	}

	return board, nil
}

func (m *Manager) DeleteBoard(ctx context.Context, userID, boardID int) error {
	board, err := m.Board(ctx, boardID)
	if err != nil {
		return err
	}

	if board.UserID != userID {
		return ErrNotAuthor
	}

	if err := m.storage.DeleteBoard(ctx, boardID); err != nil {
		return fmt.Errorf("delete board %v from storage: %w", boardID, err)
	}

	return nil
}

func (m *Manager) CreateComment(ctx context.Context, userID, boardID int, content string) (*Comment, error) {
	if err := validatePost("", content, false); err != nil {
		return nil, err
	}

	if _, err := m.Board(ctx, boardID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &Comment{ //nolint:exhaustruct // id is assigned by storage
		BoardID:   boardID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.storage.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment to storage: %w", err)
	}

	return comment, nil
}

func (m *Manager) Comments(ctx context.Context, boardID int) ([]*Comment, error) {
	comments, err := m.storage.ListCommentsByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list comments for board %v: %w", boardID, err)
	}

	return comments, nil
}

func (m *Manager) UpdateComment(ctx context.Context, userID, commentID int, content string) (*Comment, error) {
	if err := validatePost("", content, false); err != nil {
		return nil, err
	}

	comment, err := m.storage.GetComment(ctx, commentID)
	if errors.Is(err, booking.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load comment %v from storage: %w", commentID, err)
	}

	if comment.UserID != userID {
		return nil, ErrNotAuthor
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()

	if err := m.storage.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment to storage: %w", err)
	}

	return comment, nil
}

func (m *Manager) DeleteComment(ctx context.Context, userID, commentID int) error {
	comment, err := m.storage.GetComment(ctx, commentID)
	if errors.Is(err, booking.ErrRecordNotFound) {
		return ErrCommentNotFound
	}

	if err != nil {
		return fmt.Errorf("load comment %v from storage: %w", commentID, err)
	}

	if comment.UserID != userID {
		return ErrNotAuthor
	}

	if err := m.storage.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment %v from storage: %w", commentID, err)
	}

	return nil
}
