package quantumchat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quantumchat/client-go/internal/api"
)

// testServer is an in-memory QuantumChat backend for tests. Like the real
// one, it stores only public keys, wrapped records, and sealed blobs.
type testServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	users    map[string]*testUser
	tokens   map[string]string // token -> username
	rooms    map[int64]string  // id -> name
	members  map[int64]map[string]bool
	entries  map[int64]map[string]string
	messages map[int64][]api.Message

	nextID int64

	// keyFetches counts GET /api/rooms/{id}/key calls across all rooms.
	keyFetches atomic.Int64
}

type testUser struct {
	id                  int64
	password            string
	kemPublicKey        string
	encryptedPrivateKey string
}

func newTestServer() *testServer {
	ts := &testServer{
		users:    make(map[string]*testUser),
		tokens:   make(map[string]string),
		rooms:    make(map[int64]string),
		members:  make(map[int64]map[string]bool),
		entries:  make(map[int64]map[string]string),
		messages: make(map[int64][]api.Message),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", ts.handleRegister)
	mux.HandleFunc("POST /api/auth/login", ts.handleLogin)
	mux.HandleFunc("GET /api/users/{username}", ts.handleGetUser)
	mux.HandleFunc("POST /api/rooms", ts.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms", ts.handleListRooms)
	mux.HandleFunc("POST /api/rooms/{id}/join", ts.handleJoinRoom)
	mux.HandleFunc("POST /api/rooms/{id}/leave", ts.handleLeaveRoom)
	mux.HandleFunc("GET /api/rooms/{id}/key", ts.handleGetKey)
	mux.HandleFunc("PUT /api/rooms/{id}/keys/{username}", ts.handlePutKey)
	mux.HandleFunc("POST /api/rooms/{id}/messages", ts.handleSendMessage)
	mux.HandleFunc("GET /api/rooms/{id}/messages", ts.handleGetMessages)

	ts.srv = httptest.NewServer(mux)
	return ts
}

func (ts *testServer) Close() { ts.srv.Close() }

func (ts *testServer) URL() string { return ts.srv.URL }

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func (ts *testServer) auth(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	username, ok := ts.tokens[token]
	return username, ok
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (ts *testServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	json.NewDecoder(r.Body).Decode(&req)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, exists := ts.users[req.Username]; exists {
		writeDetail(w, http.StatusConflict, "username taken")
		return
	}
	ts.nextID++
	ts.users[req.Username] = &testUser{
		id:                  ts.nextID,
		password:            req.Password,
		kemPublicKey:        req.KemPublicKey,
		encryptedPrivateKey: req.EncryptedPrivateKey,
	}
	json.NewEncoder(w).Encode(api.RegisterResponse{ID: ts.nextID, Username: req.Username})
}

func (ts *testServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	json.NewDecoder(r.Body).Decode(&req)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	user, ok := ts.users[req.Username]
	if !ok || user.password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := fmt.Sprintf("tok-%s-%d", req.Username, time.Now().UnixNano())
	ts.tokens[token] = req.Username
	json.NewEncoder(w).Encode(api.LoginResponse{
		Token:               token,
		UserID:              user.id,
		KemPublicKey:        user.kemPublicKey,
		EncryptedPrivateKey: user.encryptedPrivateKey,
	})
}

func (ts *testServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	username := r.PathValue("username")
	user, ok := ts.users[username]
	if !ok {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	json.NewEncoder(w).Encode(api.UserProfile{ID: user.id, Username: username, KemPublicKey: user.kemPublicKey})
}

func (ts *testServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	username, ok := ts.auth(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req api.CreateRoomRequest
	json.NewDecoder(r.Body).Decode(&req)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.nextID++
	ts.rooms[ts.nextID] = req.Name
	ts.members[ts.nextID] = map[string]bool{username: true}
	ts.entries[ts.nextID] = make(map[string]string)
	json.NewEncoder(w).Encode(api.Room{ID: ts.nextID, Name: req.Name})
}

func (ts *testServer) handleListRooms(w http.ResponseWriter, r *http.Request) {
	username, ok := ts.auth(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	rooms := []api.Room{}
	for id, name := range ts.rooms {
		if ts.members[id][username] {
			rooms = append(rooms, api.Room{ID: id, Name: name})
		}
	}
	json.NewEncoder(w).Encode(rooms)
}

func (ts *testServer) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	username, ok := ts.auth(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	roomID := pathID(r)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, exists := ts.rooms[roomID]; !exists {
		writeDetail(w, http.StatusNotFound, "room not found")
		return
	}
	ts.members[roomID][username] = true
	w.WriteHeader(http.StatusOK)
}

func (ts *testServer) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	username, ok := ts.auth(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	roomID := pathID(r)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, exists := ts.rooms[roomID]; !exists {
		writeDetail(w, http.StatusNotFound, "room not found")
		return
	}
	delete(ts.members[roomID], username)
	delete(ts.entries[roomID], username)
	w.WriteHeader(http.StatusOK)
}

func (ts *testServer) handleGetKey(w http.ResponseWriter, r *http.Request) {
	username, ok := ts.auth(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	ts.keyFetches.Add(1)

	roomID := pathID(r)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	sealed, ok := ts.entries[roomID][username]
	if !ok {
		writeDetail(w, http.StatusNotFound, "no key distribution entry")
		return
	}
	json.NewEncoder(w).Encode(api.DistributionEntry{RoomID: roomID, SealedKey: sealed})
}

func (ts *testServer) handlePutKey(w http.ResponseWriter, r *http.Request) {
	if _, ok := ts.auth(r); !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req api.PutDistributionEntryRequest
	json.NewDecoder(r.Body).Decode(&req)

	roomID := pathID(r)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.entries[roomID] == nil {
		ts.entries[roomID] = make(map[string]string)
	}
	ts.entries[roomID][r.PathValue("username")] = req.SealedKey
	w.WriteHeader(http.StatusOK)
}

func (ts *testServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	username, ok := ts.auth(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req api.SendMessageRequest
	json.NewDecoder(r.Body).Decode(&req)

	roomID := pathID(r)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.nextID++
	msg := api.Message{
		ID:       ts.nextID,
		RoomID:   roomID,
		SenderID: ts.users[username].id,
		Payload:  req.Payload,
		SentAt:   time.Now().UTC(),
	}
	ts.messages[roomID] = append(ts.messages[roomID], msg)
	json.NewEncoder(w).Encode(msg)
}

func (ts *testServer) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := ts.auth(r); !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	roomID := pathID(r)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	msgs := ts.messages[roomID]
	if msgs == nil {
		msgs = []api.Message{}
	}
	json.NewEncoder(w).Encode(msgs)
}
