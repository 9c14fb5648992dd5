package forum_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/storage/memory"
)

const (
	author   = 1
	stranger = 2
)

func newManager(t *testing.T) *forum.Manager {
	t.Helper()

	l := logger.New(log.New(io.Discard, "", 0))

	return forum.New(l, memory.New(memory.Config{L: l}))
}

func createBoard(t *testing.T, m *forum.Manager) *forum.Board {
	t.Helper()

	board, err := m.CreateBoard(context.Background(), author, "Late checkout", "Can housekeeping start later on Sundays?")
	if err != nil {
		t.Fatalf("CreateBoard(): %v", err)
	}

	return board
}

func TestCreateBoardValidatesInput(t *testing.T) {
	m := newManager(t)

	_, err := m.CreateBoard(context.Background(), author, "", "")

	inputErr := booking.IsInputError(err)
	if inputErr == nil {
		t.Fatalf("CreateBoard() error = %v, want InputError", err)
	}

	if inputErr.FieldsCount() != 2 {
		t.Errorf("FieldsCount() = %v, want 2", inputErr.FieldsCount())
	}
}

func TestBoardLifecycle(t *testing.T) {
	m := newManager(t)

	board := createBoard(t, m)

	loaded, err := m.Board(context.Background(), board.ID)
	if err != nil {
		t.Fatalf("Board(): %v", err)
	}

	if loaded.Title != "Late checkout" {
		t.Errorf("Title = %q, want %q", loaded.Title, "Late checkout")
	}

	updated, err := m.UpdateBoard(context.Background(), author, board.ID, "Late checkout policy", "Settled: noon on Sundays.")
	if err != nil {
		t.Fatalf("UpdateBoard(): %v", err)
	}

	if updated.Title != "Late checkout policy" {
		t.Errorf("Title after update = %q, want %q", updated.Title, "Late checkout policy")
	}

	if err := m.DeleteBoard(context.Background(), author, board.ID); err != nil {
		t.Fatalf("DeleteBoard(): %v", err)
	}

	if _, err := m.Board(context.Background(), board.ID); !errors.Is(err, forum.ErrBoardNotFound) {
		t.Errorf("Board() after delete = %v, want ErrBoardNotFound", err)
	}
}

func TestBoardAuthorOnly(t *testing.T) {
	m := newManager(t)

	board := createBoard(t, m)

	if _, err := m.UpdateBoard(context.Background(), stranger, board.ID, "hijack", "hijack"); !errors.Is(err, forum.ErrNotAuthor) {
		t.Errorf("UpdateBoard() by stranger = %v, want ErrNotAuthor", err)
	}

	if err := m.DeleteBoard(context.Background(), stranger, board.ID); !errors.Is(err, forum.ErrNotAuthor) {
		t.Errorf("DeleteBoard() by stranger = %v, want ErrNotAuthor", err)
	}
}

func TestCommentLifecycle(t *testing.T) {
	m := newManager(t)

	board := createBoard(t, m)

	comment, err := m.CreateComment(context.Background(), author, board.ID, "Noon works for us.")
	if err != nil {
		t.Fatalf("CreateComment(): %v", err)
	}

	comments, err := m.Comments(context.Background(), board.ID)
	if err != nil {
		t.Fatalf("Comments(): %v", err)
	}

	if len(comments) != 1 {
		t.Fatalf("len(comments) = %v, want 1", len(comments))
	}

	if _, err := m.UpdateComment(context.Background(), stranger, comment.ID, "edited"); !errors.Is(err, forum.ErrNotAuthor) {
		t.Errorf("UpdateComment() by stranger = %v, want ErrNotAuthor", err)
	}

	if _, err := m.UpdateComment(context.Background(), author, comment.ID, "Noon works, eleven does not."); err != nil {
		t.Fatalf("UpdateComment(): %v", err)
	}

	if err := m.DeleteComment(context.Background(), author, comment.ID); err != nil {
		t.Fatalf("DeleteComment(): %v", err)
	}

	if _, err := m.UpdateComment(context.Background(), author, comment.ID, "too late"); !errors.Is(err, forum.ErrCommentNotFound) {
		t.Errorf("UpdateComment() after delete = %v, want ErrCommentNotFound", err)
	}
}

func TestCreateCommentRequiresBoard(t *testing.T) {
	m := newManager(t)

	if _, err := m.CreateComment(context.Background(), author, 404, "orphan"); !errors.Is(err, forum.ErrBoardNotFound) {
		t.Errorf("CreateComment() on missing board = %v, want ErrBoardNotFound", err)
	}
}

func TestDeleteBoardRemovesComments(t *testing.T) {
	m := newManager(t)

	board := createBoard(t, m)

	if _, err := m.CreateComment(context.Background(), author, board.ID, "first"); err != nil {
		t.Fatalf("CreateComment(): %v", err)
	}

	if err := m.DeleteBoard(context.Background(), author, board.ID); err != nil {
		t.Fatalf("DeleteBoard(): %v", err)
	}

	comments, err := m.Comments(context.Background(), board.ID)
	if err != nil {
		t.Fatalf("Comments(): %v", err)
	}

	if len(comments) != 0 {
		t.Errorf("len(comments) after board delete = %v, want 0", len(comments))
	}
}
