package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/validator.v2"

	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

const (
	msgInvalidInput  = "Invalid input!"
	msgInvalidChoice = "Invalid choice!"
	msgExiting       = "Exiting..."
)

const menu = `
1. Create Account
2. Deposit
3. Withdraw
4. Transfer
5. View Account
6. Add to Customer Service Queue
7. Serve Next Customer
8. Exit
9. View Journal`

// errInvalidInput marks operator-input that could not be parsed.
var errInvalidInput = errors.New("invalid input")

// CmdHandler runs commands and returns operator-messages.
type CmdHandler interface {
	Handle(cmd model.Cmd) (string, error)
}

// Session is an interactive menu-loop. Lines are read from
// provided io.Reader, and prompts and results are written
// to provided io.Writer.
// Use #NewSession to create new instance.
type Session struct {
	log        logger.Logger
	scanner    *bufio.Scanner
	buffWriter *bufio.Writer
	// Fed by #scanLines once session has started.
	lines <-chan scanResult

	handler  CmdHandler
	showMenu bool
}

// Cfg is config for Session.
type Cfg struct {
	Log    logger.Logger `validate:"nonnil"`
	Reader io.Reader     `validate:"nonnil"`
	Writer io.Writer     `validate:"nonnil"`

	Handler CmdHandler `validate:"nonnil"`
	// Prints the numbered menu before every choice.
	ShowMenu bool
}

type scanResult struct {
	line string
	err  error
}

// NewSession validates config and creates a new Session.
func NewSession(cfg *Cfg) (*Session, error) {
	err := validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	buffWriter, castSuccess := cfg.Writer.(*bufio.Writer)
	if !castSuccess {
		buffWriter = bufio.NewWriter(cfg.Writer)
	}

	return &Session{
		log:        cfg.Log,
		scanner:    bufio.NewScanner(cfg.Reader),
		buffWriter: buffWriter,

		handler:  cfg.Handler,
		showMenu: cfg.ShowMenu,
	}, nil
}

// Start runs the menu-loop until operator exits, input
// ends, or context is done.
func (s *Session) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is nil")
	}

	stop := make(chan struct{})
	defer close(stop)
	s.lines = s.scanLines(stop)

	s.log.Infof("Started session")
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Received context-done signal")
			return nil
		default:
		}

		if s.showMenu {
			err := s.writeln(menu)
			if err != nil {
				return err
			}
		}
		choice, ok, err := s.prompt(ctx, "Choose an option: ")
		if err != nil || !ok {
			return err
		}

		exit, err := s.dispatch(ctx, strings.TrimSpace(choice))
		if errors.Is(err, io.EOF) {
			s.log.Debug("Input ended mid-command")
			return nil
		}
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

// dispatch reads arguments for choice and runs resulting command.
func (s *Session) dispatch(ctx context.Context, choice string) (bool, error) {
	var (
		action model.CmdAction
		data   interface{}
		err    error
	)

	switch choice {
	case "1":
		action = model.CreateAccount
		data, err = s.readCreateAccount(ctx)
	case "2":
		action = model.Deposit
		data, err = s.readAmount(ctx)
	case "3":
		action = model.Withdraw
		data, err = s.readAmount(ctx)
	case "4":
		action = model.Transfer
		data, err = s.readTransfer(ctx)
	case "5":
		action = model.ViewAccount
		data, err = s.readAccount(ctx)
	case "6":
		action = model.EnqueueCustomer
		data, err = s.readCustomer(ctx)
	case "7":
		action = model.ServeCustomer
	case "8":
		return true, s.writeln(msgExiting)
	case "9":
		action = model.ViewJournal
	default:
		return false, s.writeln(msgInvalidChoice)
	}

	if errors.Is(err, errInvalidInput) {
		s.log.Debugf("Discarding command: %s", err)
		return false, s.writeln(msgInvalidInput)
	}
	if err != nil {
		return false, err
	}

	cmd, err := model.NewCmd(&model.CmdCfg{
		Action: action,
		Data:   data,
	})
	if err != nil {
		return false, errors.Wrap(err, "error creating command")
	}
	msg, err := s.handler.Handle(cmd)
	if err != nil {
		return false, errors.Wrapf(err, "error handling command: %s", action)
	}
	return false, s.writeln(msg)
}

func (s *Session) readCreateAccount(ctx context.Context) (*model.CreateAccountReq, error) {
	id, err := s.readInt(ctx, "Enter Account Number: ")
	if err != nil {
		return nil, err
	}
	name, err := s.readLine(ctx, "Enter Name: ")
	if err != nil {
		return nil, err
	}
	balance, err := s.readDecimal(ctx, "Enter Initial Balance: ")
	if err != nil {
		return nil, err
	}
	return &model.CreateAccountReq{
		AccountID:      id,
		Name:           name,
		InitialBalance: balance,
	}, nil
}

func (s *Session) readAmount(ctx context.Context) (*model.AmountReq, error) {
	id, err := s.readInt(ctx, "Enter Account Number: ")
	if err != nil {
		return nil, err
	}
	amount, err := s.readDecimal(ctx, "Enter Amount: ")
	if err != nil {
		return nil, err
	}
	return &model.AmountReq{
		AccountID: id,
		Amount:    amount,
	}, nil
}

func (s *Session) readTransfer(ctx context.Context) (*model.TransferReq, error) {
	fromID, err := s.readInt(ctx, "Enter Sender Account Number: ")
	if err != nil {
		return nil, err
	}
	toID, err := s.readInt(ctx, "Enter Receiver Account Number: ")
	if err != nil {
		return nil, err
	}
	amount, err := s.readDecimal(ctx, "Enter Amount: ")
	if err != nil {
		return nil, err
	}
	return &model.TransferReq{
		FromID: fromID,
		ToID:   toID,
		Amount: amount,
	}, nil
}

func (s *Session) readAccount(ctx context.Context) (*model.AccountReq, error) {
	id, err := s.readInt(ctx, "Enter Account Number: ")
	if err != nil {
		return nil, err
	}
	return &model.AccountReq{AccountID: id}, nil
}

func (s *Session) readCustomer(ctx context.Context) (*model.CustomerReq, error) {
	name, err := s.readLine(ctx, "Enter Customer Name: ")
	if err != nil {
		return nil, err
	}
	return &model.CustomerReq{Name: name}, nil
}

func (s *Session) readInt(ctx context.Context, label string) (int, error) {
	line, err := s.readLine(ctx, label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errors.Wrapf(errInvalidInput, "not a number: %q", line)
	}
	return v, nil
}

func (s *Session) readDecimal(ctx context.Context, label string) (decimal.Decimal, error) {
	line, err := s.readLine(ctx, label)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(strings.TrimSpace(line))
	if err != nil {
		return decimal.Zero, errors.Wrapf(errInvalidInput, "not an amount: %q", line)
	}
	return v, nil
}

// readLine prompts and returns next line, or io.EOF when input
// ended or context is done.
func (s *Session) readLine(ctx context.Context, label string) (string, error) {
	line, ok, err := s.prompt(ctx, label)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

// prompt writes label and waits for next line.
// Returns false once input has ended or context is done.
func (s *Session) prompt(ctx context.Context, label string) (string, bool, error) {
	_, err := s.buffWriter.WriteString(label)
	if err != nil {
		return "", false, errors.Wrap(err, "error writing prompt")
	}
	err = s.buffWriter.Flush()
	if err != nil {
		return "", false, errors.Wrap(err, "error flushing buffered-writer")
	}

	select {
	case <-ctx.Done():
		s.log.Debug("Received context-done signal while waiting for input")
		return "", false, nil

	case result, ok := <-s.lines:
		if !ok {
			s.log.Debug("Finished reading input")
			return "", false, nil
		}
		if result.err != nil {
			return "", false, errors.Wrap(result.err, "error reading input")
		}
		return result.line, true, nil
	}
}

// scanLines reads input in background, so that waiting for a line
// can be abandoned on context-done. A read that is still blocked
// when stop is closed only returns once the reader does.
func (s *Session) scanLines(stop <-chan struct{}) <-chan scanResult {
	lines := make(chan scanResult)

	go func() {
		defer close(lines)
		for s.scanner.Scan() {
			select {
			case lines <- scanResult{line: s.scanner.Text()}:
			case <-stop:
				return
			}
		}

		err := s.scanner.Err()
		if err != nil {
			select {
			case lines <- scanResult{err: err}:
			case <-stop:
			}
		}
	}()
	return lines
}

func (s *Session) writeln(msg string) error {
	_, err := fmt.Fprintln(s.buffWriter, msg)
	if err != nil {
		return errors.Wrap(err, "error writing output")
	}
	err = s.buffWriter.Flush()
	return errors.Wrap(err, "error flushing buffered-writer")
}
