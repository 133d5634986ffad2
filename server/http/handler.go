package http

import (
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opdss/eventbus/eventbus"
	"github.com/opdss/eventbus/scenario"
)

// BusHandler 通过http操作一个进程内的事件总线, 所有请求串行访问总线
type BusHandler struct {
	mu     sync.Mutex
	bus    *eventbus.Bus
	out    io.Writer
	logger *zap.Logger
}

// NewBusHandler out接收scenario监听者的输出
func NewBusHandler(bus *eventbus.Bus, out io.Writer, logger *zap.Logger) *BusHandler {
	if out == nil {
		out = io.Discard
	}
	return &BusHandler{bus: bus, out: out, logger: logger}
}

// Routes 注册路由
func (h *BusHandler) Routes(r gin.IRouter) {
	r.POST("/topics/:topic/events", h.register)
	r.POST("/topics/:topic/listeners", h.subscribe)
	r.GET("/topics", h.topics)
	r.GET("/pending", h.pending)
	r.POST("/publish", h.publish)
	r.DELETE("/events", h.clear)
}

type registerReq struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type subscribeReq struct {
	Kind string `json:"kind" binding:"required"`
	Name string `json:"name"`
}

func (h *BusHandler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := scenario.NewEvent(scenario.EventSpec{Topic: c.Param("topic"), Type: req.Type, Value: req.Value})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.bus.Register(c.Param("topic"), ev)
	h.mu.Unlock()
	c.JSON(http.StatusAccepted, gin.H{"id": ev.ID()})
}

func (h *BusHandler) subscribe(c *gin.Context) {
	var req subscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := scenario.NewListener(scenario.ListenerSpec{Topic: c.Param("topic"), Kind: req.Kind, Name: req.Name}, h.out)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.bus.Subscribe(c.Param("topic"), l)
	h.mu.Unlock()
	c.Status(http.StatusCreated)
}

func (h *BusHandler) topics(c *gin.Context) {
	h.mu.Lock()
	topics := h.bus.Topics()
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (h *BusHandler) pending(c *gin.Context) {
	h.mu.Lock()
	n := h.bus.PendingCount()
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *BusHandler) clear(c *gin.Context) {
	h.mu.Lock()
	h.bus.Clear()
	h.mu.Unlock()
	c.Status(http.StatusNoContent)
}

type failureResp struct {
	Topic    string `json:"topic"`
	Stage    string `json:"stage"`
	Listener string `json:"listener"`
	Event    string `json:"event"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error"`
}

type reportResp struct {
	Delivered int            `json:"delivered"`
	Dropped   map[string]int `json:"dropped"`
	Failures  []failureResp  `json:"failures"`
	Error     string         `json:"error,omitempty"`
}

func (h *BusHandler) publish(c *gin.Context) {
	h.mu.Lock()
	report, err := h.bus.Flush()
	h.mu.Unlock()

	resp := reportResp{
		Delivered: report.Delivered,
		Dropped:   make(map[string]int, len(report.Dropped)),
		Failures:  make([]failureResp, 0, len(report.Failures)),
	}
	for _, d := range report.Dropped {
		resp.Dropped[d.Topic] = d.Count
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, failureResp{
			Topic:    f.Topic,
			Stage:    f.Stage.String(),
			Listener: f.Listener,
			Event:    f.EventID,
			Skipped:  f.Skipped,
			Error:    f.Err.Error(),
		})
	}
	if err != nil {
		h.logger.Warn("publish aborted", zap.Error(err))
		resp.Error = err.Error()
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
