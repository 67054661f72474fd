package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nid-extract/api/internal/nid"
	"nid-extract/api/internal/ocr"
)

// Engines are the configured transports the /engine command switches
// between.
type Engines struct {
	HTTP ocr.Engine
	SDK  ocr.Engine
}

func (e Engines) byName(name string) ocr.Engine {
	switch name {
	case "http", "gemini":
		return e.HTTP
	case "sdk", "genai":
		return e.SDK
	default:
		return nil
	}
}

type Router struct {
	Bot        *tgbotapi.BotAPI
	EngManager *ocr.Manager
	Engines    Engines
	Cache      nid.Cache // may be nil
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}
	if len(upd.Message.Photo) > 0 || upd.Message.Document != nil {
		r.acceptPhoto(*upd.Message)
		return
	}
	r.send(upd.Message.Chat.ID, "Send a photo of the ID card and I will reply with the 14-digit number.")
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send a photo of an Egyptian National ID card — I will extract the 14-digit number.\nCommands: /health, /engine")
	case "health":
		r.send(cid, "✅ OK: "+r.EngManager.Get(cid).Name()+" ("+r.EngManager.Get(cid).GetModel()+")")
	case "engine":
		args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(upd.Message.Text, "/engine")))
		if len(args) == 0 {
			r.send(cid, "Current engine: "+r.EngManager.Get(cid).Name()+"\nUsage:\n/engine http\n/engine sdk")
			return
		}
		name := strings.ToLower(args[0])
		e := r.Engines.byName(name)
		if e == nil {
			r.send(cid, "Unknown engine. Available: http | sdk")
			return
		}
		r.EngManager.Set(cid, e)
		r.send(cid, "Ok, switched to: "+e.Name())
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) send(chatID int64, text string) {
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, "❌ "+err.Error())
}
