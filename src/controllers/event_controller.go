package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"Backend-AirForm/src/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 30 * time.Second

type EventController struct {
	hub *realtime.Hub
}

func NewEventController(hub *realtime.Hub) *EventController {
	return &EventController{hub: hub}
}

// Stream godoc
// @Summary      Server-sent event stream for a form owner
// @Tags         events
// @Produce      text/event-stream
// @Param        userId path string true "User ID"
// @Router       /api/events/{userId} [get]
func (ec *EventController) Stream(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing user ID"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ch := ec.hub.Register(userID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer ec.hub.Unregister(userID, ch)

		connected, _ := json.Marshal(realtime.Event{Type: "connected", Data: fiber.Map{"userId": userID}})
		fmt.Fprintf(w, "data: %s\n\n", connected)
		if err := w.Flush(); err != nil {
			return
		}

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					// Replaced by a newer connection for the same user.
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", msg)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
