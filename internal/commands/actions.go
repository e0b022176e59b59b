package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/mdslate/internal/config"
	"github.com/gerunddev/mdslate/internal/diff"
	"github.com/gerunddev/mdslate/internal/styles"
	"github.com/gerunddev/mdslate/internal/tui"
	"github.com/gerunddev/mdslate/richtext"
	"github.com/gerunddev/mdslate/serialize"
)

// readInput reads the file named by the first argument, "-" or no argument
// reads standard input
func readInput(env *Env, cmd *cli.Command) (string, []byte, error) {
	if cmd.Args().Len() > 1 {
		env.Log.Warn("too many arguments", "ignoring", cmd.Args().Slice()[1:])
	}

	name := cmd.Args().First()
	if name == "" || name == "-" {
		data, err := io.ReadAll(env.In)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return "STDIN", data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return name, data, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func countFootnotes(nodes richtext.Nodes) int {
	count := 0
	richtext.Walk(nodes, func(n richtext.Node) bool {
		if b, ok := n.(*richtext.Block); ok && b.Kind == richtext.KindFootnote {
			count++
		}
		return true
	})
	return count
}

// parseFile runs the forward conversion on the input, logging the events
func parseFile(env *Env, cmd *cli.Command) (string, richtext.Nodes, error) {
	name, data, err := readInput(env, cmd)
	if err != nil {
		return "", nil, err
	}

	start := time.Now()
	env.Log.ConversionStarted(name, "markdown")
	nodes, err := env.Engine.ParseMarkdown(string(data))
	if err != nil {
		env.Log.ConversionError(name, err)
		return "", nil, err
	}
	env.Log.FootnotesResolved(name, countFootnotes(nodes))
	env.Log.ConversionCompleted(name, len(nodes), time.Since(start))
	return name, nodes, nil
}

// Parse prints Markdown as rich-text JSON, or as the generic tree with --mdast
func Parse(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)

	if cmd.Bool("mdast") {
		name, data, err := readInput(env, cmd)
		if err != nil {
			return err
		}
		root, err := env.Engine.Parse(string(data))
		if err != nil {
			env.Log.ConversionError(name, err)
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return writeJSON(env.Out, root)
	}

	_, nodes, err := parseFile(env, cmd)
	if err != nil {
		return err
	}
	return writeJSON(env.Out, nodes)
}

func decodeFile(env *Env, cmd *cli.Command) (string, richtext.Nodes, error) {
	name, data, err := readInput(env, cmd)
	if err != nil {
		return "", nil, err
	}
	nodes, err := richtext.Decode(data)
	if err != nil {
		env.Log.ConversionError(name, err)
		return "", nil, err
	}
	return name, nodes, nil
}

// Render prints rich-text JSON as Markdown through the syntax tree
func Render(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)

	name, nodes, err := decodeFile(env, cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	env.Log.ConversionStarted(name, "richtext")
	out, err := env.Engine.RenderMarkdown(nodes)
	if err != nil {
		env.Log.ConversionError(name, err)
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	env.Log.ConversionCompleted(name, len(nodes), time.Since(start))

	_, err = io.WriteString(env.Out, out)
	return err
}

// Serialize prints rich-text JSON as Markdown with the direct serializer
func Serialize(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)

	name, nodes, err := decodeFile(env, cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	env.Log.ConversionStarted(name, "richtext")
	out := serialize.NodesDepth(nodes, env.Engine.MaxDepth())
	env.Log.ConversionCompleted(name, len(nodes), time.Since(start))

	_, err = io.WriteString(env.Out, out)
	return err
}

// Roundtrip converts Markdown to rich text and back and shows the difference
func Roundtrip(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)

	name, data, err := readInput(env, cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	env.Log.ConversionStarted(name, "roundtrip")
	res, err := diff.Roundtrip(env.Engine, name, string(data), cmd.Bool("direct"))
	if err != nil {
		env.Log.ConversionError(name, err)
		return err
	}
	env.Log.ConversionCompleted(name, res.Nodes, time.Since(start))

	plain := cmd.Bool("plain") || env.Cfg.Diff.Style == config.StylePlain
	if !res.Changed() {
		msg := "✓ lossless round trip"
		if !plain {
			msg = styles.SuccessStyle.Render(msg)
		}
		_, err = fmt.Fprintln(env.Out, msg)
		return err
	}

	opts := diff.Options{
		Format:   diff.FormatRendered,
		Style:    env.Cfg.Diff.Style,
		WordWrap: env.Cfg.Diff.WordWrap,
	}
	if plain {
		opts.Format = diff.FormatPlain
	}
	_, err = io.WriteString(env.Out, diff.Render(res.Unified(), opts))
	return err
}

// Browse opens the interactive block browser
func Browse(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)

	load := func() (*tui.BrowseData, error) {
		name, nodes, err := parseFile(env, cmd)
		if err != nil {
			return nil, err
		}
		return tui.NewBrowseData(name, nodes, env.Engine.RenderMarkdown)
	}
	return tui.RunBrowse(load)
}

// Config prints the active configuration, --init writes it to the config path
func Config(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)

	if cmd.Bool("init") {
		path := env.ConfigPath
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file '%s' already exists", path)
		}
		if err := config.DefaultConfig().SaveTo(path); err != nil {
			return err
		}
		env.Log.Info("configuration written", "file", path)
		return nil
	}

	data, err := yaml.Marshal(env.Cfg)
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}
	_, err = env.Out.Write(data)
	return err
}
