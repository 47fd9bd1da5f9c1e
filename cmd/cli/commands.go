package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/model"
	"storefront/console/internal/service"
	"storefront/console/internal/session"
)

var errSignedOut = errors.New("you are not signed in; run `storefront login` first")

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}

	if !a.ctrl.IsAuthenticated() {
		return errSignedOut
	}

	var err error
	switch cmd {
	case "whoami":
		err = a.whoami()
	case "products":
		err = a.products(ctx, rest)
	case "profile":
		err = a.profile(ctx, rest)
	case "password":
		err = a.password(ctx, rest)
	default:
		return errUsage
	}
	if err != nil && a.landed == session.SignInPath {
		fmt.Fprintln(a.out, "Your session has expired. Please sign in again.")
	}
	return err
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// parse parses args and returns the names of the flags given on the
// command line.
func parse(fs *flag.FlagSet, args []string) (map[string]bool, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set, nil
}

// secret returns value, or reads one line from stdin when it is empty.
func (a *app) secret(prompt, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	pw, err := a.secret("Password", *password)
	if err != nil {
		return err
	}
	if err := a.ctrl.Login(ctx, *email, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "You have successfully signed in as %s.\n", a.ctrl.User().DisplayName())
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := a.flags("signup")
	fullName := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	mobile := fs.String("mobile", "", "10 digit mobile number")
	password := fs.String("password", "", "account password (prompted when empty)")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	pw, err := a.secret("Password", *password)
	if err != nil {
		return err
	}
	if err := a.ctrl.Signup(ctx, *fullName, *email, *mobile, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "You have successfully signed up as %s.\n", a.ctrl.User().DisplayName())
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.ctrl.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) whoami() error {
	printUser(a.out, a.ctrl.User())
	return nil
}

func printUser(w io.Writer, u *model.User) {
	fmt.Fprintf(w, "Name:   %s\n", orNotProvided(u.FullName))
	fmt.Fprintf(w, "Email:  %s\n", orNotProvided(u.Email))
	fmt.Fprintf(w, "Mobile: %s\n", orNotProvided(u.MobileNo))
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

func (a *app) catalog() *service.Catalog {
	key := strconv.Itoa(a.ctrl.User().ID)
	return service.NewCatalog(service.NewProductService(a.api), a.cache, key)
}

func (a *app) products(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		return a.listProducts(ctx)
	case "show":
		return a.showProduct(ctx, args[1:])
	case "create":
		return a.createProduct(ctx, args[1:])
	case "update":
		return a.updateProduct(ctx, args[1:])
	case "delete":
		return a.deleteProduct(ctx, args[1:])
	default:
		return errUsage
	}
}

func (a *app) listProducts(ctx context.Context) error {
	products, err := a.catalog().List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products yet. Add your first product.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tDISCOUNT")
	for _, p := range products {
		discount := ""
		if p.HasDiscount() {
			discount = fmt.Sprintf("%d%% OFF", p.DiscountPercent())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, model.FormatPrice(p.Price.String()), discount)
	}
	return tw.Flush()
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	fs := a.flags("products show")
	id := fs.String("id", "", "product id")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return errUsage
	}

	p, err := a.catalog().Get(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:          %s\n", p.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", p.Description)
	}
	if p.HasDiscount() {
		fmt.Fprintf(a.out, "Price:       %s (was %s, %d%% OFF)\n",
			model.FormatPrice(p.DiscountedPrice.String()),
			model.FormatPrice(p.OriginalPrice.String()),
			p.DiscountPercent())
	} else {
		fmt.Fprintf(a.out, "Price:       %s\n", model.FormatPrice(p.Price.String()))
	}
	if link := p.ImageLink(a.api.BaseURL()); link != "" {
		fmt.Fprintf(a.out, "Image:       %s\n", link)
	}
	return nil
}

func readImage(path string) (*apiclient.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return apiclient.ReadFile(filepath.Base(path), f)
}

func (a *app) createProduct(ctx context.Context, args []string) error {
	fs := a.flags("products create")
	req := service.CreateProductRequest{}
	fs.StringVar(&req.Name, "name", "", "product name")
	fs.StringVar(&req.Description, "description", "", "product description")
	fs.StringVar(&req.Price, "price", "", "price")
	fs.StringVar(&req.OriginalPrice, "original-price", "", "price before discount")
	fs.StringVar(&req.DiscountedPrice, "discounted-price", "", "price after discount")
	image := fs.String("image", "", "path to the product image")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	if *image != "" {
		img, err := readImage(*image)
		if err != nil {
			return err
		}
		req.Image = img
	}

	p, err := a.catalog().Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product created successfully! (id %s)\n", p.ID)
	return nil
}

func (a *app) updateProduct(ctx context.Context, args []string) error {
	fs := a.flags("products update")
	id := fs.String("id", "", "product id")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "price")
	original := fs.String("original-price", "", "price before discount")
	discounted := fs.String("discounted-price", "", "price after discount")
	image := fs.String("image", "", "path to a new product image")
	set, err := parse(fs, args)
	if err != nil {
		return err
	}
	if *id == "" {
		return errUsage
	}

	req := service.UpdateProductRequest{}
	if set["name"] {
		req.Name = name
	}
	if set["description"] {
		req.Description = description
	}
	if set["price"] {
		req.Price = price
	}
	if set["original-price"] {
		req.OriginalPrice = original
	}
	if set["discounted-price"] {
		req.DiscountedPrice = discounted
	}
	if *image != "" {
		img, err := readImage(*image)
		if err != nil {
			return err
		}
		req.Image = img
	}

	if _, err := a.catalog().Update(ctx, *id, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Product updated successfully!")
	return nil
}

func (a *app) deleteProduct(ctx context.Context, args []string) error {
	fs := a.flags("products delete")
	id := fs.String("id", "", "product id")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return errUsage
	}

	if err := a.catalog().Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Product deleted successfully!")
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	profiles := service.NewProfileService(a.api)

	switch args[0] {
	case "show":
		u, err := profiles.Profile(ctx)
		if err != nil {
			return err
		}
		if err := a.ctrl.UpdateUser(*u); err != nil {
			return err
		}
		printUser(a.out, u)
		return nil

	case "update":
		fs := a.flags("profile update")
		req := service.UpdateProfileRequest{}
		fs.StringVar(&req.FullName, "name", "", "full name")
		fs.StringVar(&req.Email, "email", "", "email")
		fs.StringVar(&req.MobileNo, "mobile", "", "mobile number")
		if _, err := parse(fs, args[1:]); err != nil {
			return err
		}

		u, err := profiles.UpdateProfile(ctx, req)
		if err != nil {
			return err
		}
		if err := a.ctrl.UpdateUser(*u); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile updated successfully!")
		return nil

	default:
		return errUsage
	}
}

func (a *app) password(ctx context.Context, args []string) error {
	fs := a.flags("password")
	current := fs.String("current", "", "current password (prompted when empty)")
	next := fs.String("new", "", "new password (prompted when empty)")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var req service.ChangePasswordRequest
	var err error
	if req.CurrentPassword, err = a.secret("Current password", *current); err != nil {
		return err
	}
	if req.NewPassword, err = a.secret("New password", *next); err != nil {
		return err
	}
	req.ConfirmNewPassword = req.NewPassword
	if *next == "" {
		if req.ConfirmNewPassword, err = a.secret("Confirm new password", ""); err != nil {
			return err
		}
	}

	if err := service.NewProfileService(a.api).ChangePassword(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed successfully!")
	return nil
}
