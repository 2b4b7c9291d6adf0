package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"pp_quest/internal/api"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8888/api/v1/feed", "feed endpoint")
	raw := flag.Bool("raw", false, "print frames as received")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			if *raw {
				log.Printf("Received:\n%s\n", p)
				continue
			}

			var msg api.Message
			if err := json.Unmarshal(p, &msg); err != nil {
				log.Println("json unmarshal error:", err)
				continue
			}

			profile := msg.Payload.Profile
			pending := 0
			for _, q := range msg.Payload.Quests {
				if !q.Completed {
					pending++
				}
			}
			log.Printf("%s: %d quests (%d pending), skips=%d, premium=%t, xp=%d, streak=%d/%d",
				msg.Type, len(msg.Payload.Quests), pending, profile.DailySkips, profile.IsPremium,
				profile.Stats.TotalPoints, profile.Stats.CurrentStreak, profile.Stats.BestStreak)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
		}
	}
}
