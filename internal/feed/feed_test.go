package feed

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

func newFeedServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop())
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	router := gin.New()
	router.GET("/ws/reports", NewHandler(hub, zap.NewNop()).Subscribe)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reports"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial feed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeedDeliversPublishedReports(t *testing.T) {
	hub, srv := newFeedServer(t)
	conn := dialFeed(t, srv)

	// Subscription registration races with Publish; give the hub a beat.
	time.Sleep(50 * time.Millisecond)

	report := model.Report{
		IssueType:     "pothole",
		AIProbability: 0.93,
		AISeverity:    "high",
	}
	hub.Publish(report)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read feed event: %v", err)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatal(err)
	}
	if event.Type != "report_submitted" {
		t.Errorf("event type = %q, want report_submitted", event.Type)
	}
	if event.Report.IssueType != "pothole" || event.Report.AISeverity != "high" {
		t.Errorf("unexpected report in event: %+v", event.Report)
	}
}

func TestFeedFansOutToAllSubscribers(t *testing.T) {
	hub, srv := newFeedServer(t)
	first := dialFeed(t, srv)
	second := dialFeed(t, srv)

	time.Sleep(50 * time.Millisecond)
	hub.Publish(model.Report{IssueType: "drainage"})

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("subscriber %d: %v", i, err)
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatal(err)
		}
		if event.Report.IssueType != "drainage" {
			t.Errorf("subscriber %d got %+v", i, event.Report)
		}
	}
}
