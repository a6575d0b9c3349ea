package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/planner"
)

const localOnlyNote = "(changed locally only; the server keeps the old value)"

type statsProvider interface {
	Stats(ctx context.Context, start, end string) (model.TodoStats, error)
}

type healthReporter interface {
	Health(ctx context.Context) (dto.HealthResponse, error)
}

type accountReader interface {
	Account() *model.Account
}

// load fetches the current window. A failed fetch still renders whatever
// the store holds, with its error line.
func (c *cli) load(ctx context.Context) error {
	return c.store.FetchTodos(ctx)
}

func (c *cli) render() {
	st := c.store.Snapshot()
	renderWeek(c.out, st, c.store.VisibleDays(c.cfg.DayCount), planner.FormatDate(c.now()))
}

// finish renders the week and reports err with the store's message for it.
func (c *cli) finish(err error) error {
	c.render()
	if err == nil {
		return nil
	}
	if msg := c.store.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return err
}

func (c *cli) runWeek(cmd *cobra.Command, _ []string) error {
	return c.finish(c.load(cmd.Context()))
}

func (c *cli) weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the current week",
		Args:  cobra.NoArgs,
		RunE:  c.runWeek,
	}
}

func (c *cli) nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Move forward one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.finish(c.store.NavigateWeek(cmd.Context(), planner.Next))
		},
	}
}

func (c *cli) prevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Move back one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.finish(c.store.NavigateWeek(cmd.Context(), planner.Prev))
		},
	}
}

func (c *cli) todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Start the week at today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.finish(c.store.SetStartDate(cmd.Context(), c.now()))
		},
	}
}

func (c *cli) gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto <date>",
		Short: "Start the week at a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := c.resolveDate(args[0])
			if err != nil {
				return err
			}
			t, _ := planner.ParseDate(date)
			return c.finish(c.store.SetStartDate(cmd.Context(), t))
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <date> <text...>",
		Short: "Add a todo to a day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := c.resolveDate(args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return errors.New("todo text is empty")
			}

			ctx := cmd.Context()
			if err := c.load(ctx); err != nil {
				return c.finish(err)
			}
			_, err = c.store.AddTodo(ctx, date, text)
			return c.finish(err)
		},
	}
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <date> <n>",
		Short: "Mark a todo done or not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, todo, err := c.resolveTodo(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return c.finish(c.store.ToggleTodo(ctx, date, todo.TodoID))
		},
	}
}

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <date> <n>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, todo, err := c.resolveTodo(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return c.finish(c.store.DeleteTodo(ctx, date, todo.TodoID))
		},
	}
}

func (c *cli) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <date> <n> <to-date>",
		Short: "Move a todo to another day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, todo, err := c.resolveTodo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			to, err := c.resolveDate(args[2])
			if err != nil {
				return err
			}
			c.store.MoveTodo(date, to, todo.TodoID)
			if err := c.finish(nil); err != nil {
				return err
			}
			fmt.Fprintln(c.out, localOnlyNote)
			return nil
		},
	}
}

func (c *cli) colorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <date> <n> <red|green|blue|purple|yellow|none>",
		Short: "Tag a todo with a color",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := parseColor(args[2])
			if err != nil {
				return err
			}
			date, todo, err := c.resolveTodo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			c.store.UpdateTodoSettings(date, todo.TodoID, planner.SettingsUpdate{Color: &color})
			if err := c.finish(nil); err != nil {
				return err
			}
			fmt.Fprintln(c.out, localOnlyNote)
			return nil
		},
	}
}

func (c *cli) recurCmd() *cobra.Command {
	var until string
	cmd := &cobra.Command{
		Use:   "recur <date> <n> <daily|weekly|monthly|none>",
		Short: "Repeat a todo across the week",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := planner.SettingsUpdate{}
			if freq := strings.ToLower(args[2]); freq == "none" {
				upd.ClearRecurring = true
			} else {
				f := model.Frequency(freq)
				if !f.Valid() {
					return fmt.Errorf("unknown frequency %q", args[2])
				}
				r := &model.Recurrence{Frequency: f}
				if until != "" {
					end, err := c.resolveDate(until)
					if err != nil {
						return err
					}
					r.EndDate = end
				}
				upd.Recurring = r
			}

			date, todo, err := c.resolveTodo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			c.store.UpdateTodoSettings(date, todo.TodoID, upd)
			if err := c.finish(nil); err != nil {
				return err
			}
			fmt.Fprintln(c.out, localOnlyNote)
			return nil
		},
	}
	cmd.Flags().StringVar(&until, "until", "", "Last date the todo repeats on")
	return cmd
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion counts for the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sp, ok := c.backend.(statsProvider)
			if !ok {
				return errors.New("stats are not available from this server")
			}
			days := c.store.Snapshot().Days
			first, last := days[0].Date, days[len(days)-1].Date
			stats, err := sp.Stats(cmd.Context(), first, last)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s to %s\n", first, last)
			fmt.Fprintf(c.out, "  total:     %d\n", stats.Total)
			fmt.Fprintf(c.out, "  completed: %d\n", stats.Completed)
			fmt.Fprintf(c.out, "  pending:   %d\n", stats.Pending)
			fmt.Fprintf(c.out, "  recurring: %d\n", stats.Recurring)
			return nil
		},
	}
}

func (c *cli) loginCmd() *cobra.Command {
	return c.credentialsCmd("login <email>", "Sign in", c.signIn)
}

func (c *cli) registerCmd() *cobra.Command {
	return c.credentialsCmd("register <email>", "Create an account and sign in", c.signUp)
}

func (c *cli) signIn(ctx context.Context, email, password string) (model.Account, error) {
	return c.backend.Login(ctx, email, password)
}

func (c *cli) signUp(ctx context.Context, email, password string) (model.Account, error) {
	return c.backend.Register(ctx, email, password)
}

func (c *cli) credentialsCmd(use, short string, fn func(context.Context, string, string) (model.Account, error)) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(c.errOut, "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			ctx := cmd.Context()
			unbind := planner.BindAuth(ctx, c.store, c.backend)
			defer unbind()

			account, err := fn(ctx, strings.TrimSpace(args[0]), password)
			if err != nil {
				if planner.KindOf(err) == planner.KindAuthFailure {
					return errors.New(planner.AuthMessage(err))
				}
				return err
			}
			fmt.Fprintf(c.out, "Signed in as %s\n\n", account.Email)
			return c.finish(nil)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and revoke the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.backend.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var account *model.Account
			if ar, ok := c.backend.(accountReader); ok {
				account = ar.Account()
			}
			if account == nil {
				fmt.Fprintln(c.out, "Not signed in")
				return nil
			}
			fmt.Fprintln(c.out, account.Email)
			return nil
		},
	}
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server can reach its database and token store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if hr, ok := c.backend.(healthReporter); ok {
				health, err := hr.Health(ctx)
				if err != nil {
					return fmt.Errorf("server unhealthy: %w", err)
				}
				fmt.Fprintf(c.out, "database: connected\nredis:    connected\ncpu:      %.1f%%\npool:     %d open, %d in use\n",
					health.CPU, health.Pool.Open, health.Pool.InUse)
				return nil
			}
			if !c.backend.TestConnectivity(ctx) {
				return errors.New("server unhealthy")
			}
			fmt.Fprintln(c.out, "database: connected")
			return nil
		},
	}
}

// resolveDate accepts YYYY-MM-DD, today, tomorrow or yesterday.
func (c *cli) resolveDate(s string) (string, error) {
	now := c.now()
	switch strings.ToLower(s) {
	case "today":
		return planner.FormatDate(now), nil
	case "tomorrow":
		return planner.FormatDate(now.AddDate(0, 0, 1)), nil
	case "yesterday":
		return planner.FormatDate(now.AddDate(0, 0, -1)), nil
	}
	if _, err := planner.ParseDate(s); err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return s, nil
}

// resolveTodo loads the week and finds the n-th todo (1-based) on date.
func (c *cli) resolveTodo(ctx context.Context, dateArg, posArg string) (string, model.Todo, error) {
	date, err := c.resolveDate(dateArg)
	if err != nil {
		return "", model.Todo{}, err
	}
	n, err := strconv.Atoi(posArg)
	if err != nil || n < 1 {
		return "", model.Todo{}, fmt.Errorf("invalid todo number %q", posArg)
	}

	if err := c.load(ctx); err != nil {
		return "", model.Todo{}, c.finish(err)
	}
	for _, day := range c.store.Snapshot().Days {
		if day.Date != date {
			continue
		}
		if n > len(day.Todos) {
			return "", model.Todo{}, fmt.Errorf("no todo #%d on %s", n, date)
		}
		return date, day.Todos[n-1], nil
	}
	return "", model.Todo{}, fmt.Errorf("%s is not in the current week; run `%s goto %s` first", date, AppName, date)
}

func parseColor(s string) (model.Color, error) {
	if strings.EqualFold(s, "none") {
		return model.ColorNone, nil
	}
	color := model.Color(strings.ToLower(s))
	if color == model.ColorNone || !color.Valid() {
		return "", fmt.Errorf("unknown color %q", s)
	}
	return color, nil
}
