// tts реализует service.SpeechSynthesizer поверх ElevenLabs-совместимого API.
// client.go — HTTP-клиент и посекционный синтез длинных скриптов;
// voices.go — каталог именованных голосов диктора.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/config"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

// Слов в минуту наррации — основа оценки длительности.
const wordsPerMinute = 150

// Client — клиент сервиса синтеза речи.
type Client struct {
	cfg        config.TTSConfig
	httpClient *http.Client
}

// New создаёт клиент из конфигурации.
func New(cfg config.TTSConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize озвучивает текст выбранным голосом.
//
// Контракт:
//   - текст короче лимита синтезируется одним запросом;
//   - более длинный — по секциям, с фиксированной паузой между
//     запросами (rate limit стороннего сервиса) и склейкой байтов
//     в исходном порядке;
//   - длительность — оценка по числу слов (~150 слов/мин),
//     приближение, а не измерение реального аудио.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (*service.SynthesisResult, error) {
	const op = "tts/Synthesize"

	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is not configured", op)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%s: empty text", op)
	}

	if voice == "" {
		voice = c.cfg.DefaultVoice
	}
	voice = ResolveVoice(voice)

	sections := splitSections(text, c.cfg.ChunkWordLimit)

	var audio []byte
	var totalWords int

	for i, section := range sections {
		if i > 0 && c.cfg.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(c.cfg.ChunkDelay):
			}
		}

		chunk, err := c.synthesizeOnce(ctx, section, voice)
		if err != nil {
			return nil, fmt.Errorf("%s: section %d/%d: %w", op, i+1, len(sections), err)
		}

		audio = append(audio, chunk...)
		totalWords += len(strings.Fields(section))
	}

	return &service.SynthesisResult{
		Audio:           audio,
		DurationSeconds: estimateSeconds(totalWords),
	}, nil
}

// synthesizeOnce — один запрос к сервису синтеза.
func (c *Client) synthesizeOnce(ctx context.Context, text, voice string) ([]byte, error) {
	const op = "tts/synthesizeOnce"

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/text-to-speech/" + voice
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s: status=%d: %s", op, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if len(audio) == 0 {
		return nil, fmt.Errorf("%s: empty audio in response", op)
	}

	return audio, nil
}

// splitSections делит текст на секции не длиннее wordLimit слов.
// Границы секций проходят по абзацам; абзац длиннее лимита режется
// по словам. Порядок текста сохраняется.
func splitSections(text string, wordLimit int) []string {
	if wordLimit <= 0 || len(strings.Fields(text)) <= wordLimit {
		return []string{text}
	}

	var sections []string
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n\n"))
			current = nil
			currentWords = 0
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		words := strings.Fields(para)

		// Абзац сверх лимита — нарезка по словам.
		if len(words) > wordLimit {
			flush()
			for start := 0; start < len(words); start += wordLimit {
				end := start + wordLimit
				if end > len(words) {
					end = len(words)
				}
				sections = append(sections, strings.Join(words[start:end], " "))
			}
			continue
		}

		if currentWords+len(words) > wordLimit {
			flush()
		}

		current = append(current, para)
		currentWords += len(words)
	}
	flush()

	return sections
}

// estimateSeconds оценивает длительность наррации по числу слов.
func estimateSeconds(words int) int {
	return (words*60 + wordsPerMinute - 1) / wordsPerMinute
}

// Проверка выполнения контракта верхнего уровня.
var _ service.SpeechSynthesizer = (*Client)(nil)
