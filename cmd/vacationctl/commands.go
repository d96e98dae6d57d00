package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/vacation-booking/backend/client"
)

// newFlags returns a flag set whose errors are reported by run.
func newFlags(c *cli, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// idArg parses the single positional vacation id.
func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected one vacation id", errUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid vacation id %q", errUsage, args[0])
	}
	return id, nil
}

func cmdSignUp(ctx context.Context, c *cli, args []string) error {
	fs := newFlags(c, "signup")
	var req client.SignUpRequest
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{
		"first": req.FirstName, "last": req.LastName, "email": req.Email, "password": req.Password,
	}); err != nil {
		return err
	}

	token, err := c.api.SignUp(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, token)
	return nil
}

func cmdSignIn(ctx context.Context, c *cli, args []string) error {
	fs := newFlags(c, "signin")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlags(map[string]string{"email": *email, "password": *password}); err != nil {
		return err
	}

	token, err := c.api.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, token)
	return nil
}

func cmdWhoAmI(ctx context.Context, c *cli, _ []string) error {
	me, err := c.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(me)
}

func cmdList(ctx context.Context, c *cli, args []string) error {
	fs := newFlags(c, "list")
	page := fs.Int("page", 1, "page number, 10 vacations per page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	p, err := c.api.ListVacations(ctx, *page)
	if err != nil {
		return err
	}
	return c.printJSON(p)
}

func cmdFuture(ctx context.Context, c *cli, _ []string) error {
	vs, err := c.api.ListFutureVacations(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(vs)
}

func cmdGet(ctx context.Context, c *cli, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	v, err := c.api.GetVacation(ctx, id)
	if err != nil {
		return err
	}
	return c.printJSON(v)
}

func cmdDelete(ctx context.Context, c *cli, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	return c.api.DeleteVacation(ctx, id)
}

func cmdFollow(ctx context.Context, c *cli, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	return c.api.Follow(ctx, id)
}

func cmdUnfollow(ctx context.Context, c *cli, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	return c.api.Unfollow(ctx, id)
}

func cmdFollowed(ctx context.Context, c *cli, _ []string) error {
	vs, err := c.api.ListFollowed(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(vs)
}

func cmdReport(ctx context.Context, c *cli, args []string) error {
	fs := newFlags(c, "report")
	asCSV := fs.Bool("csv", false, "print CSV instead of JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *asCSV {
		return c.api.FollowerReportCSV(ctx, c.stdout)
	}
	rows, err := c.api.FollowerReport(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(rows)
}

// --- vacation form --------------------------------------------------------------

// vacationForm is the add/edit form. Every field is required and the image
// is uploaded after the vacation is saved.
type vacationForm struct {
	destination string
	description string
	start       string
	end         string
	price       float64
	imagePath   string
	imageName   string
}

func (f *vacationForm) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.destination, "destination", "", "destination")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.start, "start", "", "start date, YYYY-MM-DD or RFC 3339")
	fs.StringVar(&f.end, "end", "", "end date, YYYY-MM-DD or RFC 3339")
	fs.Float64Var(&f.price, "price", 0, "price")
	fs.StringVar(&f.imagePath, "image", "", "path of the image file")
	fs.StringVar(&f.imageName, "image-name", "", "stored image name (default: destination)")
}

// input checks the form and converts it to a request body.
func (f *vacationForm) input() (client.VacationInput, error) {
	if err := requireFlags(map[string]string{
		"destination": f.destination, "description": f.description,
		"start": f.start, "end": f.end, "image": f.imagePath,
	}); err != nil {
		return client.VacationInput{}, err
	}
	if f.price <= 0 {
		return client.VacationInput{}, fmt.Errorf("%w: -price must be positive", errUsage)
	}
	start, err := parseDate(f.start)
	if err != nil {
		return client.VacationInput{}, fmt.Errorf("%w: -start: %v", errUsage, err)
	}
	end, err := parseDate(f.end)
	if err != nil {
		return client.VacationInput{}, fmt.Errorf("%w: -end: %v", errUsage, err)
	}
	if err := client.CheckLegalDates(start, end); err != nil {
		return client.VacationInput{}, err
	}

	name := strings.TrimSpace(f.imageName)
	if name == "" {
		name = strings.TrimSpace(f.destination)
	}
	return client.VacationInput{
		Destination: f.destination,
		Description: f.description,
		StartDate:   client.Date{Time: start},
		EndDate:     client.Date{Time: end},
		Price:       f.price,
		ImageName:   name,
	}, nil
}

func cmdAdd(ctx context.Context, c *cli, args []string) error {
	fs := newFlags(c, "add")
	var form vacationForm
	form.bind(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	in, err := form.input()
	if err != nil {
		return err
	}
	img, err := os.Open(form.imagePath)
	if err != nil {
		return fmt.Errorf("no image selected: %w", err)
	}
	defer img.Close()

	v, err := c.api.CreateVacation(ctx, in)
	if err != nil {
		return err
	}
	if err := uploadImage(ctx, c, in.ImageName, img); err != nil {
		return err
	}
	return c.printJSON(v)
}

func cmdEdit(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected a vacation id", errUsage)
	}
	id, err := idArg(args[:1])
	if err != nil {
		return err
	}
	fs := newFlags(c, "edit")
	var form vacationForm
	form.bind(fs)
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}
	in, err := form.input()
	if err != nil {
		return err
	}
	img, err := os.Open(form.imagePath)
	if err != nil {
		return fmt.Errorf("no image selected: %w", err)
	}
	defer img.Close()

	v, err := c.api.UpdateVacation(ctx, id, in)
	if err != nil {
		return err
	}
	if err := uploadImage(ctx, c, in.ImageName, img); err != nil {
		return err
	}
	return c.printJSON(v)
}

func uploadImage(ctx context.Context, c *cli, name string, r io.Reader) error {
	if _, err := c.api.UploadImage(ctx, name, r); err != nil {
		return fmt.Errorf("vacation saved but image upload failed: %w", err)
	}
	return nil
}

// requireFlags lists every flag whose value is blank.
func requireFlags(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: missing required %s", errUsage, strings.Join(missing, ", "))
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.New("want YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}
