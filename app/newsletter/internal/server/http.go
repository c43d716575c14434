package server

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/conf"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/service"
)

const OperationGenerateNewsletter = "/newsletter.v1.Newsletter/GenerateNewsletter"

func NewHTTPServer(c *conf.Server, s *service.NewsletterService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(recovery.WithHandler(recoveryHandler(logger))),
		),
		http.ErrorEncoder(errorEncoder),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			} else {
				log.NewHelper(logger).Warnf("invalid http timeout %q: %v", c.Http.Timeout, err)
			}
		}
	}

	srv := http.NewServer(opts...)
	registerNewsletterHTTPServer(srv, s)
	return srv
}

func registerNewsletterHTTPServer(srv *http.Server, s *service.NewsletterService) {
	r := srv.Route("/")
	r.POST("/api/generate-newsletter", generateNewsletterHandler(s))
}

func generateNewsletterHandler(s *service.NewsletterService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.GenerateNewsletterRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGenerateNewsletter)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.GenerateNewsletter(ctx, req.(*service.GenerateNewsletterRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, out)
	}
}

// recoveryHandler panic 与其他致命错误一样返回统一的失败信息
func recoveryHandler(logger log.Logger) recovery.HandlerFunc {
	helper := log.NewHelper(logger)
	return func(ctx context.Context, req, err interface{}) error {
		helper.WithContext(ctx).Errorf("panic recovered: %v", err)
		return service.ErrGenerateFailed(fmt.Errorf("panic: %v", err))
	}
}

// errorEncoder 所有错误统一输出 {"error": message}，5xx 不暴露内部原因
func errorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	message := se.Message
	if se.Code >= nethttp.StatusInternalServerError {
		message = service.GenerateFailedMessage
	}
	codec, _ := http.CodecForRequest(r, "Accept")
	body, err := codec.Marshal(map[string]string{"error": message})
	if err != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/"+codec.Name())
	w.WriteHeader(int(se.Code))
	_, _ = w.Write(body)
}
