package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/ablochha/multiwaycut/pkg/engine"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) readRequest() (*multiwayCutRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	for {
		h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
		if err != nil {
			return nil, err
		}
		if h.OpCode.IsControl() {
			if err := wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r); err != nil {
				return nil, err
			}
			continue
		}

		req := &multiwayCutRequest{}
		if err := decodeRequest(r, req); err != nil {
			return nil, err
		}
		return req, nil
	}
}

func errorFrame(status int, message string) envelope {
	return envelope{"error": map[string]string{
		"code":    http.StatusText(status),
		"message": message,
	}}
}

// Solve reads one request frame and streams a {"trial": ...} frame per finished trial followed by the
// final {"data": ...} report. Invalid requests are answered with an {"error": ...} frame.
func (u *User) Solve(ctx context.Context) error {
	req, err := u.readRequest()
	if err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return u.write(errorFrame(http.StatusBadRequest, err.Error()))
	}

	var writeErr error
	var once sync.Once
	observer := func(tr engine.TrialResult) {
		if err := u.write(envelope{"trial": NewTrialResponse(tr)}); err != nil {
			once.Do(func() { writeErr = err })
		}
	}

	report, err := u.hub.service.Solve(ctx, req.ToProblem(), observer)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		return u.write(errorFrame(statusOf(err), err.Error()))
	}
	return u.write(envelope{"data": NewMultiwayCutResponse(report)})
}

func (u *User) write(x interface{}) error {
	js, err := json.Marshal(x)
	if err != nil {
		return err
	}

	u.io.Lock()
	defer u.io.Unlock()

	return wsutil.WriteServerText(u.conn, js)
}

type Hub struct {
	mu      sync.RWMutex
	seq     uint
	us      []*User
	ns      map[uint]*User
	service MultiwayCutService
	log     *zap.Logger
}

func NewHub(service MultiwayCutService, log *zap.Logger) *Hub {
	return &Hub{
		ns:      make(map[uint]*User),
		us:      make([]*User, 0),
		service: service,
		log:     log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs
	user.conn.Close()
}

func (h *Hub) NumberOfUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

// ServeWS upgrades the request and serves one solve on the connection. The handler blocks until the
// report is sent so the request context stays live for the whole solve.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.log.Info("upgrade error", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}
	_ = conn.SetDeadline(time.Time{})
	h.log.Info("established websocket connection", zap.String("remote", r.RemoteAddr),
		zap.String("protocol", hs.Protocol))

	user := h.Register(conn)
	defer h.Remove(user)
	if err := user.Solve(r.Context()); err != nil {
		h.log.Error("error solving multiway cut over websocket", zap.Error(err))
	}
}
