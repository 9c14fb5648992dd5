package web

import (
	"net/http"
)

type boardDTO struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type commentDTO struct {
	Content string `json:"content" validate:"required"`
}

func (s *Server) listBoardsHandler(w http.ResponseWriter, r *http.Request) {
	boards, err := s.forum.Boards(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, boards)
}

func (s *Server) getBoardHandler(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	board, err := s.forum.Board(r.Context(), boardID)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, board)
}

func (s *Server) createBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	var dto boardDTO
	if !s.decode(w, r, &dto) {
		return
	}

	board, err := s.forum.CreateBoard(r.Context(), userID, dto.Title, dto.Content)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusCreated, board)
}

func (s *Server) updateBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto boardDTO
	if !s.decode(w, r, &dto) {
		return
	}

	board, err := s.forum.UpdateBoard(r.Context(), userID, boardID, dto.Title, dto.Content)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, board)
}

func (s *Server) deleteBoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.forum.DeleteBoard(r.Context(), userID, boardID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := s.forum.Comments(r.Context(), boardID)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, comments)
}

func (s *Server) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	boardID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto commentDTO
	if !s.decode(w, r, &dto) {
		return
	}

	comment, err := s.forum.CreateComment(r.Context(), userID, boardID, dto.Content)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusCreated, comment)
}

func (s *Server) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto commentDTO
	if !s.decode(w, r, &dto) {
		return
	}

	comment, err := s.forum.UpdateComment(r.Context(), userID, commentID, dto.Content)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, comment)
}

func (s *Server) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.accountID(w, r)
	if !ok {
		return
	}

	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.forum.DeleteComment(r.Context(), userID, commentID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
