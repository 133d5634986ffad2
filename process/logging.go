package process

import (
	"os"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig 日志配置,File为空时输出到stderr
type LogConfig struct {
	Level       string `help:"日志级别[debug|info|warn|error]" releaseDefault:"info" default:"debug"`
	Development bool   `help:"使用开发模式的日志格式" releaseDefault:"false" default:"true"`
	File        string `help:"日志文件路径,为空时输出到stderr" default:""`
	MaxSize     int    `help:"单个日志文件最大尺寸(MB)" default:"100"`
	MaxBackups  int    `help:"保留的旧日志文件数量" default:"7"`
	MaxAge      int    `help:"旧日志文件保留天数" default:"30"`
}

// NewLogger 根据配置创建zap日志
func NewLogger(conf LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	encoderConf := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderConf)
	if conf.Development {
		encoderConf = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConf)
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if conf.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSize,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAge,
		})
	}

	opts := []zap.Option{zap.AddCaller()}
	if conf.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewCore(encoder, sink, level), opts...), nil
}
