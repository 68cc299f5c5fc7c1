// Package console is the text command loop a player drives the game with.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/talgya/cookie-world/internal/economy"
	"github.com/talgya/cookie-world/internal/effects"
	"github.com/talgya/cookie-world/internal/engine"
)

// History lists recently committed transactions, newest first.
type History interface {
	RecentTransactions(ctx context.Context, limit int) ([]engine.Receipt, error)
}

// Console reads commands line by line and prints their results.
type Console struct {
	game    *engine.Game
	history History
	in      io.Reader
	out     io.Writer
	prompt  bool
}

// Option configures a Console.
type Option func(*Console)

// WithHistory enables the history command.
func WithHistory(h History) Option {
	return func(c *Console) { c.history = h }
}

// WithPrompt prints a prompt before every command.
func WithPrompt(on bool) Option {
	return func(c *Console) { c.prompt = on }
}

// New creates a console over game reading from in and writing to out.
func New(game *engine.Game, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{game: game, in: in, out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run processes commands until exit, end of input, or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	fmt.Fprintln(c.out, "Welcome to the cookie factory! Type 'help' for commands.")
	for {
		if c.prompt {
			fmt.Fprint(c.out, "> ")
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("read command: %w", err)
				}
				return nil
			}
			if quit := c.Execute(ctx, line); quit {
				return nil
			}
		}
	}
}

// Execute runs a single command line and reports whether it asked to exit.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	var err error
	switch cmd, args := fields[0], fields[1:]; {
	case cmd == "exit" || cmd == "quit":
		fmt.Fprintln(c.out, "Bye!")
		return true
	case cmd == "help":
		c.help()
	case cmd == "cookie" && len(args) == 0:
		err = c.click(ctx)
	case (cmd == "buy" || cmd == "sell" || cmd == "price") && len(args) == 2:
		err = c.factoryCommand(ctx, cmd, args[0], args[1])
	case cmd == "effect" && len(args) == 1:
		err = c.buyEffect(ctx, args[0])
	case cmd == "luck" && len(args) == 0:
		err = c.drawLuck(ctx)
	case cmd == "warehouse":
		c.warehouse()
	case cmd == "factories":
		err = c.factories()
	case cmd == "effects":
		err = c.effects()
	case cmd == "history" && c.history != nil && len(args) <= 1:
		err = c.showHistory(ctx, args)
	default:
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help' for commands.\n", line)
	}

	if err != nil {
		slog.Debug("command failed", "command", line, "error", err)
		fmt.Fprintln(c.out, Describe(err))
	}
	return false
}

// Describe turns an engine error into a message for the player.
func Describe(err error) string {
	switch {
	case errors.Is(err, economy.ErrUnknownItem):
		return "There's no such item!"
	case errors.Is(err, economy.ErrInvalidQuantity):
		return "The quantity must be a positive whole number!"
	case errors.Is(err, economy.ErrInsufficientFunds):
		return "You don't have enough to pay for that!"
	case errors.Is(err, economy.ErrInsufficientHoldings):
		return "You can't sell more than you have!"
	case errors.Is(err, economy.ErrEffectAlreadyActive):
		return "That effect is already active!"
	case errors.Is(err, economy.ErrOverflow):
		return "That amount is too large to handle!"
	}
	return "Something went wrong: " + err.Error()
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", economy.ErrInvalidQuantity, s)
	}
	return n, nil
}

func (c *Console) click(ctx context.Context) error {
	r, err := c.game.Click(ctx, economy.CurrencyCookie, 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "+%d %s\n", r.Amount, r.Currency)
	return nil
}

func (c *Console) factoryCommand(ctx context.Context, cmd, name, qty string) error {
	kind, err := economy.ParseFactory(name)
	if err != nil {
		return err
	}
	n, err := parseQuantity(qty)
	if err != nil {
		return err
	}

	switch cmd {
	case "buy":
		r, err := c.game.BuyFactory(ctx, kind, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Bought %d %s for %s\n", r.Quantity, kind, cost(r))
	case "sell":
		r, err := c.game.SellFactory(ctx, kind, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Sold %d %s for %s\n", r.Quantity, kind, cost(r))
	case "price":
		buy, err := c.game.FactoryPrice(kind, n)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Buying %d %s costs %s\n", n, kind, buy)
		if sell, err := c.game.FactoryRefund(kind, n); err == nil {
			fmt.Fprintf(c.out, "Selling %d %s refunds %s\n", n, kind, sell)
		}
	}
	return nil
}

func (c *Console) buyEffect(ctx context.Context, name string) error {
	kind, err := effects.Parse(name)
	if err != nil {
		return err
	}
	r, err := c.game.BuyEffect(ctx, kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Activated %s for %s\n", kind, cost(r))
	return nil
}

func (c *Console) drawLuck(ctx context.Context) error {
	r, err := c.game.DrawLuck(ctx)
	if err != nil {
		return err
	}
	switch {
	case r.Luck == nil || r.Luck.Effect == nil:
		fmt.Fprintf(c.out, "Paid %s. No luck this time.\n", cost(r))
	case r.Luck.Granted:
		fmt.Fprintf(c.out, "Paid %s. You won %s!\n", cost(r), *r.Luck.Effect)
	default:
		fmt.Fprintf(c.out, "Paid %s. You drew %s, but it is already active.\n", cost(r), *r.Luck.Effect)
	}
	return nil
}

func (c *Console) warehouse() {
	balances := c.game.Ledger()
	for _, cur := range economy.Currencies {
		fmt.Fprintf(c.out, "%s: %s\n", cur, economy.Comma(balances[cur]))
	}
}

func (c *Console) factories() error {
	owned := c.game.Holdings()
	for _, kind := range economy.Factories {
		next, err := c.game.FactoryPrice(kind, 1)
		if err != nil && !errors.Is(err, economy.ErrOverflow) {
			return err
		}
		nextText := next.String()
		if err != nil {
			nextText = "unaffordable"
		}
		fmt.Fprintf(c.out, "\t%s: %s (next: %s)\n", kind, economy.Comma(owned[kind]), nextText)
	}
	return nil
}

func (c *Console) effects() error {
	active := c.game.Effects()
	isActive := make(map[effects.Kind]bool, len(active))
	for _, k := range active {
		isActive[k] = true
	}
	for _, k := range effects.Kinds {
		if isActive[k] {
			fmt.Fprintf(c.out, "\t%s: active\n", k)
			continue
		}
		p, err := c.game.EffectPrice(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "\t%s: %s\n", k, p)
	}
	fmt.Fprintf(c.out, "\tlucky draw: %s\n", c.game.LuckyDrawPrice())
	return nil
}

func (c *Console) showHistory(ctx context.Context, args []string) error {
	limit := 10
	if len(args) == 1 {
		n, err := parseQuantity(args[0])
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("%w: got %d", economy.ErrInvalidQuantity, n)
		}
		limit = n
	}
	receipts, err := c.history.RecentTransactions(ctx, limit)
	if err != nil {
		return err
	}
	for _, r := range receipts {
		sign := "-"
		if r.Action.Credits() {
			sign = "+"
		}
		fmt.Fprintf(c.out, "%s %-12s %-12s x%d %s%s\n",
			r.At.Format("15:04:05"), r.Action, r.Item, r.Quantity, sign, cost(r))
	}
	return nil
}

func cost(r engine.Receipt) string {
	return economy.Cost{Currency: r.Currency, Amount: r.Amount}.String()
}

func (c *Console) help() {
	fmt.Fprint(c.out, `Commands:
  cookie                    bake one cookie by hand
  buy <factory> <n>         buy n factories (takodachi, robot, farm, mine)
  sell <factory> <n>        sell n factories
  price <factory> <n>       show buy and sell prices
  effect <name>             buy an effect (inanis, darkness, luck)
  luck                      try the lucky draw
  warehouse                 show your cookies
  factories                 show owned factories
  effects                   show effects and prices
`)
	if c.history != nil {
		fmt.Fprintln(c.out, "  history [n]               show recent transactions")
	}
	fmt.Fprintln(c.out, "  exit                      quit the game")
}
