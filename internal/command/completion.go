package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/staranto/invctl/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for invctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_invctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "browse diff export ls summary completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--actions --columns -a --color -c --examples --file --filter -f --input -i --output -o --parent --sort -s --strict-dates --titles -t --tldr"

    case "$cmd" in
        browse)
            local opts="$common --export-file --export-format"
            ;;
        diff)
            local opts="$common --key --ignore --verbose"
            ;;
        export)
            local opts="$common --format --out"
            ;;
        summary)
            local opts="$common --top"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml csv" -- "$cur") )
            return 0
            ;;
        --format|--export-format)
            COMPREPLY=( $(compgen -W "csv json yaml" -- "$cur") )
            return 0
            ;;
        --input|-i)
            COMPREPLY=( $(compgen -W "json jsonl yaml" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, we're on a snapshot file positional.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _invctl invctl
`

const zshCompletionScript = `#compdef invctl

_invctl() {
  local -a cmds
  cmds=(
    'browse:interactive inventory browser'
    'diff:compare two inventory snapshots'
    'export:export inventory records'
    'ls:list inventory records'
    'summary:inventory metrics summary'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '--actions[add an actions column]'
  '(-a --columns)'{-a,--columns}'[columns to include]:columns'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '--examples[show usage examples]'
  '--file[snapshot file]:file:_files'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-i --input)'{-i,--input}'[snapshot format]:format:(json jsonl yaml)'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml csv)'
  '--parent[record array path]:path'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '--strict-dates[fail on bad dates]'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'invctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    browse)
      _arguments -C \
        $common \
        '--export-file[export file]:file:_files' \
        '--export-format[export format]:format:(csv json yaml)' \
        '1:snapshot:_files'
      ;;
    diff)
      _arguments -C \
        $common \
        '--key[identifying field]:key' \
        '--ignore[fields to ignore]:fields' \
        '--verbose[print deltas]' \
        '1:old snapshot:_files' \
        '2:new snapshot:_files'
      ;;
    export)
      _arguments -C \
        $common \
        '--format[export format]:format:(csv json yaml)' \
        '--out[output file]:file:_files' \
        '1:snapshot:_files'
      ;;
    ls)
      _arguments -C $common '1:snapshot:_files'
      ;;
    summary)
      _arguments -C \
        $common \
        '--top[accounts and regions to list]:top' \
        '1:snapshot:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _invctl invctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: invctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "invctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
