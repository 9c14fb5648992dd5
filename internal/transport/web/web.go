package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/roomstay/backoffice/internal/auth"
	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
	"github.com/roomstay/backoffice/internal/rooms"
)

type Server struct {
	srv      *http.Server
	router   *http.ServeMux
	l        *logger.Logger
	conf     Conf
	bookings *booking.Manager
	rooms    *rooms.Manager
	members  *member.Manager
	forum    *forum.Manager
	auth     *auth.Service
	validate *validator.Validate
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
}

type Managers struct {
	Bookings *booking.Manager
	Rooms    *rooms.Manager
	Members  *member.Manager
	Forum    *forum.Manager
	Auth     *auth.Service
}

func New(ctx context.Context, conf Conf, managers Managers) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:      srv,
		router:   mux,
		l:        conf.L,
		conf:     conf,
		bookings: managers.Bookings,
		rooms:    managers.Rooms,
		members:  managers.Members,
		forum:    managers.Forum,
		auth:     managers.Auth,
		validate: validator.New(),
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}
