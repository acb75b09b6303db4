/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kyamanaka/vtask-cli/internal/dates"
	"github.com/kyamanaka/vtask-cli/internal/lock"
	"github.com/kyamanaka/vtask-cli/internal/model"
	"github.com/kyamanaka/vtask-cli/internal/store"
	"github.com/kyamanaka/vtask-cli/internal/util"
	"github.com/kyamanaka/vtask-cli/internal/vault"
	"github.com/spf13/cobra"
)

var taskDoDate string
var taskDueDate string
var taskRepeat string
var taskHighPriority bool
var taskEdit bool
var taskCompleted bool
var taskArchived bool
var taskMeta bool

// loadVault opens the configured vault; shared by every command that
// touches records.
func loadVault() (*model.Config, *vault.Vault, error) {
	config, err := store.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("❌ Error loading config: %w", err)
	}

	v, err := vault.New(config.VaultDir, lock.NewLocker())
	if err != nil {
		return nil, nil, fmt.Errorf("❌ Error opening vault: %w", err)
	}

	return config, v, nil
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create and inspect task records",
}

var newTaskCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new task in the active folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskTitle := args[0]

		config, v, err := loadVault()
		if err != nil {
			return err
		}

		now := time.Now()
		task := model.NewTask(taskTitle)
		task.IsHighPriority = taskHighPriority
		task.RepeatTask = taskRepeat

		if task.DoDate, err = dates.NormalizeForField(taskDoDate, dates.FieldDoDate, now); err != nil {
			return fmt.Errorf("❌ Invalid --do date: %w", err)
		}
		if task.DueDate, err = dates.NormalizeForField(taskDueDate, dates.FieldDueDate, now); err != nil {
			return fmt.Errorf("❌ Invalid --due date: %w", err)
		}

		if err := v.WriteRecord(task, config.Folders.Tasks); err != nil {
			return fmt.Errorf("❌ Failed to create task: %w", err)
		}

		fmt.Printf("✅ Task %s has been created successfully.\n", task.SourcePath)

		if taskEdit {
			if err := util.OpenEditor(task.SourcePath, *config); err != nil {
				log.Printf("❌ Failed to open editor: %v", err)
			}
		}
		return nil
	},
}

var listTaskCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks (active by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, v, err := loadVault()
		if err != nil {
			return err
		}

		if taskArchived {
			entries, err := v.ListArchiveEntries(config.Folders.Archive)
			if err != nil {
				return fmt.Errorf("❌ Failed to list archive: %w", err)
			}
			renderArchiveTable(entries)
			return nil
		}

		tasks, err := v.ListTasks(config.Folders.Tasks)
		if err != nil {
			return fmt.Errorf("❌ Failed to list tasks: %w", err)
		}

		if taskCompleted {
			completed, err := v.ListTasks(config.Folders.CompletedTasks)
			if err != nil {
				return fmt.Errorf("❌ Failed to list completed tasks: %w", err)
			}
			tasks = append(tasks, completed...)
		}

		renderTaskTable(tasks)
		return nil
	},
}

var showTaskCmd = &cobra.Command{
	Use:   "show [title]",
	Short: "Show one task rendered as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, v, err := loadVault()
		if err != nil {
			return err
		}

		task, err := findTask(v, *config, args[0])
		if err != nil {
			return err
		}

		if taskMeta {
			for _, key := range task.Meta.Keys() {
				value, _ := task.Meta.Get(key)
				fmt.Printf("%s: %v\n", key, value)
			}
			fmt.Println()
		}

		markdown := fmt.Sprintf("# %s\n\n%s\n", task.Title, task.Body)
		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			// Fall back to the raw body if the terminal renderer fails
			fmt.Println(markdown)
			return nil
		}
		fmt.Println(rendered)
		return nil
	},
}

var deleteTaskCmd = &cobra.Command{
	Use:   "delete [title]",
	Short: "Delete one task from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, v, err := loadVault()
		if err != nil {
			return err
		}

		task, err := findTask(v, *config, args[0])
		if err != nil {
			return err
		}

		if err := v.DeleteRecord(task); err != nil {
			return fmt.Errorf("❌ Failed to delete task: %w", err)
		}

		fmt.Printf("🗑️ Task %s has been deleted.\n", task.Title)
		return nil
	},
}

// findTask looks a title up in the active folder first, then the
// completed folder.
func findTask(v *vault.Vault, config model.Config, title string) (*model.Task, error) {
	task, err := v.ReadTask(v.RecordPath(config.Folders.Tasks, title))
	if err == nil {
		return task, nil
	}

	task, err = v.ReadTask(v.RecordPath(config.Folders.CompletedTasks, title))
	if err != nil {
		return nil, fmt.Errorf("❌ Task %q not found: %w", title, err)
	}
	return task, nil
}

func renderTaskTable(tasks []*model.Task) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Status", "Do", "Due", "Priority", "Repeat"})

	for _, task := range tasks {
		status := color.YellowString("Open")
		if task.Done {
			status = color.GreenString("Done")
		}

		priority := ""
		if task.IsHighPriority {
			priority = color.RedString("High")
		}

		t.AppendRow(table.Row{
			task.Title,
			status,
			dates.FormatForStorage(task.DoDate, dates.FieldDoDate),
			dates.FormatForStorage(task.DueDate, dates.FieldDueDate),
			priority,
			task.RepeatTask,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderArchiveTable(entries []*model.ArchiveEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Archived At", "Tags"})

	for _, entry := range entries {
		t.AppendRow(table.Row{
			entry.Title,
			dates.FormatForStorage(entry.CreatedAt, dates.FieldCreatedAt),
			entry.Tags,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func init() {
	newTaskCmd.Flags().StringVar(&taskDoDate, "do", "", "Do date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	newTaskCmd.Flags().StringVar(&taskDueDate, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	newTaskCmd.Flags().StringVar(&taskRepeat, "repeat", "", "Cron expression for a recurring task")
	newTaskCmd.Flags().BoolVarP(&taskHighPriority, "priority", "p", false, "Mark as high priority")
	newTaskCmd.Flags().BoolVarP(&taskEdit, "edit", "e", false, "Open the new task in the editor")
	listTaskCmd.Flags().BoolVarP(&taskCompleted, "completed", "c", false, "Include completed tasks")
	listTaskCmd.Flags().BoolVar(&taskArchived, "archive", false, "List archive entries instead")
	showTaskCmd.Flags().BoolVar(&taskMeta, "meta", false, "Print the metadata block as well")

	taskCmd.AddCommand(newTaskCmd, listTaskCmd, showTaskCmd, deleteTaskCmd)
	rootCmd.AddCommand(taskCmd)
}
