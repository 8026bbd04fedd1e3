package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/acavalcante04/erp-security/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter per client IP ───────────────────────────────────────

type janela struct {
	count int
	fim   time.Time
}

type limitador struct {
	mu          sync.Mutex
	limite      int
	duracao     time.Duration
	porIP       map[string]*janela
	proxLimpeza time.Time
	now         func() time.Time
}

func novoLimitador(limite int, duracao time.Duration) *limitador {
	return &limitador{limite: limite, duracao: duracao, porIP: make(map[string]*janela), now: time.Now}
}

// permitir counts one request for ip and reports whether it fits the window, plus
// the window end for Retry-After.
func (l *limitador) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	agora := l.now()
	if agora.After(l.proxLimpeza) {
		l.limpar(agora)
	}

	j, ok := l.porIP[ip]
	if !ok || agora.After(j.fim) {
		j = &janela{fim: agora.Add(l.duracao)}
		l.porIP[ip] = j
	}
	j.count++
	return j.count <= l.limite, j.fim
}

// limpar drops expired windows so IPs that never return do not pile up.
func (l *limitador) limpar(agora time.Time) {
	removidas := 0
	for ip, j := range l.porIP {
		if agora.After(j.fim) {
			delete(l.porIP, ip)
			removidas++
		}
	}
	l.proxLimpeza = agora.Add(5 * time.Minute)
	if removidas > 0 {
		log.Debug().Int("purged", removidas).Int("remaining", len(l.porIP)).Msg("rate limiter purged")
	}
}

func (l *limitador) middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fim := l.permitir(c.ClientIP())
		if !ok {
			segundos := int(time.Until(fim).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return novoLimitador(20, time.Minute).
		middleware("Muitas tentativas de login. Tente novamente em 1 minuto.")
}

// RateLimiter is the general API limiter: limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return novoLimitador(limit, window).
		middleware("Muitas requisições. Tente novamente em instantes.")
}
