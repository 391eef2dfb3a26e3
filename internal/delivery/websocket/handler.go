package websocket

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"signal-gateway/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

const streamLimit = 50

// Handler streams recent order journal entries to connected clients
type Handler struct {
	journal domain.OrderJournal
}

func NewHandler(journal domain.OrderJournal) *Handler {
	return &Handler{
		journal: journal,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Println("New Client Connected")

	// Send initial data immediately
	if err := h.send(r.Context(), conn); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := h.send(r.Context(), conn); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn) error {
	entries, err := h.journal.Recent(ctx, streamLimit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = make([]*domain.JournalEntry, 0)
	}
	return conn.WriteJSON(entries)
}
