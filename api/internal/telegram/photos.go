package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nid-extract/api/internal/nid"
	"nid-extract/api/internal/ocr"
)

var httpc = &http.Client{Timeout: 60 * time.Second}

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID

	fileID := ""
	if len(msg.Photo) > 0 {
		// Largest size is last.
		fileID = msg.Photo[len(msg.Photo)-1].FileID
	} else if msg.Document != nil {
		fileID = msg.Document.FileID
	}
	if fileID == "" {
		return
	}

	r.send(cid, "Got the photo, extracting…")

	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	img, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	x := &nid.Extractor{Engine: r.EngManager.Get(cid), Cache: r.Cache}
	id, err := x.Extract(ctx, img, nid.MimeJPEG)
	if err != nil {
		switch {
		case errors.Is(err, nid.ErrValidation):
			r.send(cid, "⚠️ Could not find a 14-digit National ID on this photo. Try a sharper shot of the card front.")
		case errors.Is(err, ocr.ErrExhausted):
			r.send(cid, "⚠️ The recognition service is overloaded, try again in a minute.")
		default:
			r.sendError(cid, err)
		}
		return
	}
	r.send(cid, "🪪 National ID: "+id)
}

func download(url string) ([]byte, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
