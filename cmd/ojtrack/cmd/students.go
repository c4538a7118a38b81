package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var studentFlags api.CreateStudentRequest

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage students (admin)",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students",
	RunE:  runStudentsList,
}

var studentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new student account",
	Long: `Register a student. The account logs in with the given email and
password and lands on the student screens.

Example:
  ojtrack students create --student-id 2024-0012 --name "Ana Cruz" \
    --email ana@uni.edu --password s3cret --program "BS Computer Science"`,
	RunE: runStudentsCreate,
}

var studentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a student",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsUpdate,
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a student",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsDelete,
}

func init() {
	for _, c := range []*cobra.Command{studentsCreateCmd, studentsUpdateCmd} {
		c.Flags().StringVar(&studentFlags.StudentID, "student-id", "", "school-issued student number")
		c.Flags().StringVar(&studentFlags.Name, "name", "", "full name")
		c.Flags().StringVar(&studentFlags.Email, "email", "", "login email")
		c.Flags().StringVar(&studentFlags.Password, "password", "", "login password (create only)")
		c.Flags().StringVar(&studentFlags.Phone, "phone", "", "contact number")
		c.Flags().StringVar(&studentFlags.Program, "program", "", "enrolled program")
		c.Flags().StringVar(&studentFlags.Status, "status", "active", "account status (active|inactive)")
	}
	studentsCmd.AddCommand(studentsListCmd, studentsCreateCmd, studentsUpdateCmd, studentsDeleteCmd)
	rootCmd.AddCommand(studentsCmd)
}

func runStudentsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	var students []api.Student
	err = withSpinner("fetching students", func() error {
		students, err = a.client.ListStudents(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	rows := make([]table.Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, table.Row{
			s.StudentID, s.Name, s.Email, dash(s.Phone), dash(s.Program), colorStatus(s.Status),
		})
	}
	renderTable(table.Row{"Student ID", "Name", "Email", "Phone", "Program", "Status"}, rows)
	fmt.Printf("%d student(s)\n", len(students))
	return nil
}

func runStudentsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	err = withSpinner("creating student", func() error {
		return a.client.CreateStudent(cmd.Context(), studentFlags)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Printf("Student %s created.\n", studentFlags.Name)
	return nil
}

func runStudentsUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	err = withSpinner("updating student", func() error {
		return a.client.UpdateStudent(cmd.Context(), args[0], studentFlags)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Printf("Student %s updated.\n", args[0])
	return nil
}

func runStudentsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	err = withSpinner("deleting student", func() error {
		return a.client.DeleteStudent(cmd.Context(), args[0])
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Printf("Student %s deleted.\n", args[0])
	return nil
}
